// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package validation

import "testing"

type scoredInput struct {
	Score float64 `validate:"gte=0.5,lte=5,ratingstep"`
}

func TestRatingStep(t *testing.T) {
	valid := []float64{0.5, 1.0, 2.5, 4.5, 5.0}
	for _, s := range valid {
		if err := ValidateStruct(&scoredInput{Score: s}); err != nil {
			t.Errorf("score %v rejected: %v", s, err)
		}
	}

	invalid := []float64{0.4, 4.3, 4.75, 5.5, -1}
	for _, s := range invalid {
		if err := ValidateStruct(&scoredInput{Score: s}); err == nil {
			t.Errorf("score %v accepted, want rejection", s)
		}
	}
}

type multiField struct {
	UserID    int64   `validate:"required,gt=0"`
	ReleaseID int64   `validate:"required,gt=0"`
	Score     float64 `validate:"required,gte=0.5,lte=5,ratingstep"`
}

func TestValidateStructCollectsAllFailures(t *testing.T) {
	verr := ValidateStruct(&multiField{UserID: 0, ReleaseID: -1, Score: 9})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	if len(verr.Errors()) < 3 {
		t.Errorf("got %d field errors, want one per invalid field: %v", len(verr.Errors()), verr)
	}

	details := verr.Details()
	if _, ok := details["fields"]; !ok {
		t.Errorf("multi-failure details missing fields list: %v", details)
	}
}

func TestValidateStructSingleFailureDetails(t *testing.T) {
	verr := ValidateStruct(&multiField{UserID: 1, ReleaseID: 2, Score: 4.3})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	details := verr.Details()
	if details["field"] != "Score" {
		t.Errorf("details = %v, want single-field form naming Score", details)
	}
}

func TestValidateStructSuccess(t *testing.T) {
	if verr := ValidateStruct(&multiField{UserID: 1, ReleaseID: 2, Score: 4.5}); verr != nil {
		t.Errorf("valid struct rejected: %v", verr)
	}
}
