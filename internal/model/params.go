// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"math"
	"strconv"
)

// =============================================================================
// PARAM KEYS
// =============================================================================

// ParamKey names one numeric generation parameter. Six parameters exist per
// phase: query expansion ("qe_") and response synthesis ("rs_").
type ParamKey string

const (
	ParamQeK                 ParamKey = "qe_k"
	ParamQeTopK              ParamKey = "qe_top_k"
	ParamQeTemperature       ParamKey = "qe_temperature"
	ParamQeMaxNewTokens      ParamKey = "qe_max_new_tokens"
	ParamQeScoreThreshold    ParamKey = "qe_score_threshold"
	ParamQeRepetitionPenalty ParamKey = "qe_repetition_penalty"
	ParamRsK                 ParamKey = "rs_k"
	ParamRsTopK              ParamKey = "rs_top_k"
	ParamRsTemperature       ParamKey = "rs_temperature"
	ParamRsMaxNewTokens      ParamKey = "rs_max_new_tokens"
	ParamRsScoreThreshold    ParamKey = "rs_score_threshold"
	ParamRsRepetitionPenalty ParamKey = "rs_repetition_penalty"
)

// AllParamKeys lists every numeric parameter key.
var AllParamKeys = []ParamKey{
	ParamQeK, ParamQeTopK, ParamQeTemperature,
	ParamQeMaxNewTokens, ParamQeScoreThreshold, ParamQeRepetitionPenalty,
	ParamRsK, ParamRsTopK, ParamRsTemperature,
	ParamRsMaxNewTokens, ParamRsScoreThreshold, ParamRsRepetitionPenalty,
}

// DefaultEditableParams is the subset of parameters exposed for editing when
// the user has not chosen their own.
var DefaultEditableParams = []ParamKey{
	ParamQeMaxNewTokens,
	ParamQeTemperature,
	ParamRsMaxNewTokens,
	ParamRsTemperature,
}

// =============================================================================
// PARAMS
// =============================================================================

// Params holds the tunable generation parameters of one conversation: twelve
// numeric values plus one flag.
type Params struct {
	QeK                 float64 `json:"qe_k"`
	QeTopK              float64 `json:"qe_top_k"`
	QeTemperature       float64 `json:"qe_temperature"`
	QeMaxNewTokens      float64 `json:"qe_max_new_tokens"`
	QeScoreThreshold    float64 `json:"qe_score_threshold"`
	QeRepetitionPenalty float64 `json:"qe_repetition_penalty"`
	RsK                 float64 `json:"rs_k"`
	RsTopK              float64 `json:"rs_top_k"`
	RsTemperature       float64 `json:"rs_temperature"`
	RsMaxNewTokens      float64 `json:"rs_max_new_tokens"`
	RsScoreThreshold    float64 `json:"rs_score_threshold"`
	RsRepetitionPenalty float64 `json:"rs_repetition_penalty"`

	UseOnlyUploaded bool `json:"use_only_uploaded"`
}

// DefaultParams returns the fixed default parameter table.
func DefaultParams() Params {
	return Params{
		QeK:                 5,
		QeTopK:              5,
		QeTemperature:       0.25,
		QeMaxNewTokens:      250,
		QeScoreThreshold:    0.7,
		QeRepetitionPenalty: 1.2,
		RsK:                 5,
		RsTopK:              5,
		RsTemperature:       0.25,
		RsMaxNewTokens:      250,
		RsScoreThreshold:    0.7,
		RsRepetitionPenalty: 1.2,
		UseOnlyUploaded:     false,
	}
}

// Get returns the value of one numeric parameter. Unknown keys read as zero.
func (p Params) Get(key ParamKey) float64 {
	switch key {
	case ParamQeK:
		return p.QeK
	case ParamQeTopK:
		return p.QeTopK
	case ParamQeTemperature:
		return p.QeTemperature
	case ParamQeMaxNewTokens:
		return p.QeMaxNewTokens
	case ParamQeScoreThreshold:
		return p.QeScoreThreshold
	case ParamQeRepetitionPenalty:
		return p.QeRepetitionPenalty
	case ParamRsK:
		return p.RsK
	case ParamRsTopK:
		return p.RsTopK
	case ParamRsTemperature:
		return p.RsTemperature
	case ParamRsMaxNewTokens:
		return p.RsMaxNewTokens
	case ParamRsScoreThreshold:
		return p.RsScoreThreshold
	case ParamRsRepetitionPenalty:
		return p.RsRepetitionPenalty
	}
	return 0
}

// Set writes one numeric parameter. Unknown keys are ignored so parameter
// operations stay total.
func (p *Params) Set(key ParamKey, value float64) {
	switch key {
	case ParamQeK:
		p.QeK = value
	case ParamQeTopK:
		p.QeTopK = value
	case ParamQeTemperature:
		p.QeTemperature = value
	case ParamQeMaxNewTokens:
		p.QeMaxNewTokens = value
	case ParamQeScoreThreshold:
		p.QeScoreThreshold = value
	case ParamQeRepetitionPenalty:
		p.QeRepetitionPenalty = value
	case ParamRsK:
		p.RsK = value
	case ParamRsTopK:
		p.RsTopK = value
	case ParamRsTemperature:
		p.RsTemperature = value
	case ParamRsMaxNewTokens:
		p.RsMaxNewTokens = value
	case ParamRsScoreThreshold:
		p.RsScoreThreshold = value
	case ParamRsRepetitionPenalty:
		p.RsRepetitionPenalty = value
	}
}

// =============================================================================
// LOCAL (STRING) FORM
// =============================================================================

// LocalParams is the string-valued shadow of Params. It preserves the exact
// text the user is typing (a trailing "." would be lost in numeric form)
// until it is parsed back.
type LocalParams struct {
	Values          map[ParamKey]string
	UseOnlyUploaded bool
}

// LocalParamsFrom renders Params into its editable string form.
func LocalParamsFrom(p Params) LocalParams {
	values := make(map[ParamKey]string, len(AllParamKeys))
	for _, key := range AllParamKeys {
		values[key] = strconv.FormatFloat(p.Get(key), 'f', -1, 64)
	}
	return LocalParams{
		Values:          values,
		UseOnlyUploaded: p.UseOnlyUploaded,
	}
}

// ToParams parses the string form back into numbers, rounding to two decimal
// places. An unparsable field reverts to that single field's default.
func (lp LocalParams) ToParams() Params {
	defaults := DefaultParams()
	p := Params{UseOnlyUploaded: lp.UseOnlyUploaded}
	for _, key := range AllParamKeys {
		p.Set(key, parseParamInput(lp.Values[key], key, defaults))
	}
	return p
}

// parseParamInput converts a single field's text input to its numeric value.
func parseParamInput(input string, key ParamKey, defaults Params) float64 {
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return defaults.Get(key)
	}
	return math.Round(v*100) / 100
}

// =============================================================================
// EDIT HINTS
// =============================================================================

// ParamLimit bounds the value range of one parameter for edit validation.
type ParamLimit struct {
	Min float64
	Max float64
}

// ParamLimits is the per-field range hint table.
var ParamLimits = map[ParamKey]ParamLimit{
	ParamQeK:                 {Min: 1, Max: 15},
	ParamRsK:                 {Min: 1, Max: 15},
	ParamQeTopK:              {Min: 1, Max: 25},
	ParamRsTopK:              {Min: 1, Max: 25},
	ParamQeMaxNewTokens:      {Min: 1, Max: 500},
	ParamRsMaxNewTokens:      {Min: 1, Max: 500},
	ParamQeTemperature:       {Min: 0, Max: 3},
	ParamRsTemperature:       {Min: 0, Max: 3},
	ParamQeScoreThreshold:    {Min: 0, Max: 5},
	ParamRsScoreThreshold:    {Min: 0, Max: 5},
	ParamQeRepetitionPenalty: {Min: 0, Max: 2},
	ParamRsRepetitionPenalty: {Min: 0, Max: 2},
}
