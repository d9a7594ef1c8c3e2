package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlexStrings_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{"string", `"LIKELY"`, []string{"LIKELY"}},
		{"array", `["POSSIBLY","LIKELY"]`, []string{"POSSIBLY", "LIKELY"}},
		{"null", `null`, nil},
		{"mixed", `["CA", 42]`, []string{"CA", "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexStrings
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatal(err)
			}
			if len(f) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, f)
			}
			for i := range f {
				if f[i] != tt.want[i] {
					t.Errorf("[%d] expected %q, got %q", i, tt.want[i], f[i])
				}
			}
		})
	}

	var f FlexStrings
	if err := json.Unmarshal([]byte(`{"a":1}`), &f); err == nil {
		t.Error("expected error for object")
	}
}

func TestResult_DecodeService(t *testing.T) {
	body := `{
		"eligibility_level": "LIKELY",
		"eligibility_message": "<p>You may be able to remove PMI.</p>",
		"cbsa_used": ["Los Angeles-Long Beach-Anaheim, CA"],
		"state_used": "CA",
		"appreciation_percent": 31.2,
		"current_home_value": 524800,
		"estimated_pmi_savings": 1800,
		"current_month": 10,
		"current_year": 2026
	}`

	var r Result
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatal(err)
	}
	if r.Level() != "LIKELY" {
		t.Errorf("unexpected level %q", r.Level())
	}
	if r.Region() != "Los Angeles-Long Beach-Anaheim, CA" {
		t.Errorf("unexpected region %q", r.Region())
	}
	if r.CurrentYear != 2026 || r.EstimatedPMISavings != 1800 {
		t.Errorf("unexpected decode %+v", r)
	}

	r.CBSAUsed = nil
	if r.Region() != "CA" {
		t.Errorf("expected state fallback, got %q", r.Region())
	}
}

func TestRequest_OmitsNilRate(t *testing.T) {
	data, err := json.Marshal(Request{Zip: "90210", CreditScore: DefaultCreditScore})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "interest_rate") {
		t.Errorf("nil rate should be omitted: %s", data)
	}

	rate := 0.045
	data, _ = json.Marshal(Request{InterestRate: &rate})
	if !strings.Contains(string(data), `"interest_rate":0.045`) {
		t.Errorf("rate missing: %s", data)
	}
}
