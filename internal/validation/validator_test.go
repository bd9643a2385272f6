// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package validation

import (
	"strings"
	"testing"
)

type registerRequest struct {
	DeviceID string `json:"device_id,omitempty" validate:"omitempty,device_id"`
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
}

type locationRequest struct {
	TouristID int64    `json:"tourist_id" validate:"required,gt=0"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Status    string   `json:"status,omitempty" validate:"omitempty,oneof=resolved"`
}

func ptr(f float64) *float64 { return &f }

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	valid := []interface{}{
		&registerRequest{Name: "Ana Lopez", Email: "ana@example.com", Phone: "+34 600 123 456"},
		&registerRequest{DeviceID: "dev-7f3a:phone.1", Name: "Ben", Email: "b@example.org", Phone: "(555) 010-9999"},
		&locationRequest{TouristID: 1, Latitude: ptr(0), Longitude: ptr(0)},
		&locationRequest{TouristID: 9, Latitude: ptr(-90), Longitude: ptr(180), Status: "resolved"},
	}
	for _, v := range valid {
		if err := ValidateStruct(v); err != nil {
			t.Errorf("ValidateStruct(%+v) = %v", v, err)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"blank name", &registerRequest{Name: "   ", Email: "a@b.co", Phone: "+1 555 0100"}, "name", "notblank"},
		{"bad email", &registerRequest{Name: "A", Email: "not-an-email", Phone: "+1 555 0100"}, "email", "email"},
		{"letters in phone", &registerRequest{Name: "A", Email: "a@b.co", Phone: "call me"}, "phone", "phone"},
		{"short phone", &registerRequest{Name: "A", Email: "a@b.co", Phone: "123"}, "phone", "phone"},
		{"bad device", &registerRequest{DeviceID: "x", Name: "A", Email: "a@b.co", Phone: "+1 555 0100"}, "device_id", "device_id"},
		{"device with space", &registerRequest{DeviceID: "my phone", Name: "A", Email: "a@b.co", Phone: "+1 555 0100"}, "device_id", "device_id"},
		{"missing tourist", &locationRequest{Latitude: ptr(1), Longitude: ptr(1)}, "tourist_id", "required"},
		{"latitude too large", &locationRequest{TouristID: 1, Latitude: ptr(90.5), Longitude: ptr(1)}, "latitude", "latitude"},
		{"longitude too small", &locationRequest{TouristID: 1, Latitude: ptr(1), Longitude: ptr(-181)}, "longitude", "longitude"},
		{"missing latitude", &locationRequest{TouristID: 1, Longitude: ptr(1)}, "latitude", "required"},
		{"bad status", &locationRequest{TouristID: 1, Latitude: ptr(1), Longitude: ptr(1), Status: "open"}, "status", "oneof"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, e := range verr.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					if !strings.Contains(e.Error(), tt.wantField) {
						t.Errorf("message %q does not name the field", e.Error())
					}
				}
			}
			if !found {
				t.Errorf("errors %v do not include %s/%s", verr, tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&locationRequest{TouristID: 1, Latitude: ptr(91), Longitude: ptr(0)})
	if single == nil {
		t.Fatal("expected error")
	}
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Details["field"] != "latitude" {
		t.Errorf("single error = %+v", apiErr)
	}

	multi := ValidateStruct(&registerRequest{})
	if multi == nil {
		t.Fatal("expected error")
	}
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("fields = %#v, want name/email/phone", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "email is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}

	if (&RequestValidationError{}).ToAPIError().Message != "Validation failed" {
		t.Error("empty error message changed")
	}
}
