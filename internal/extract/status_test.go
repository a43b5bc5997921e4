package extract

import "testing"

func TestParseStatusComplete(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSummary string
	}{
		{
			name:        "bare json",
			raw:         `{"status":"COMPLEET","dossier":{"samenvatting_onderwerp":"Herstructurering BV"}}`,
			wantSummary: "Herstructurering BV",
		},
		{
			name:        "fenced json",
			raw:         "```json\n{\"status\":\"COMPLEET\",\"dossier\":{\"samenvatting_onderwerp\":\"X\"}}\n```",
			wantSummary: "X",
		},
		{
			name:        "english status and summary",
			raw:         `{"status":"COMPLETE","dossier":{"summary":"Share transfer"}}`,
			wantSummary: "Share transfer",
		},
		{
			name:        "lowercase status",
			raw:         `{"status":"compleet","dossier":{"samenvatting_onderwerp":"Y"}}`,
			wantSummary: "Y",
		},
		{
			name:        "embedded in prose",
			raw:         `Het dossier is beoordeeld. {"status":"COMPLEET","dossier":{"samenvatting_onderwerp":"Fusie"}} Verder geen opmerkingen.`,
			wantSummary: "Fusie",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatus(tt.raw)
			if got.Kind != StatusComplete {
				t.Fatalf("Kind = %q, want complete", got.Kind)
			}
			if got.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.wantSummary)
			}
		})
	}
}

func TestParseStatusCompleteFacts(t *testing.T) {
	raw := `{"status":"COMPLEET","dossier":{"samenvatting_onderwerp":"Fusie","klant":"Jansen Holding","jaar":2026}}`
	got := ParseStatus(raw)
	if got.Kind != StatusComplete {
		t.Fatalf("Kind = %q, want complete", got.Kind)
	}
	if got.Facts["klant"] != "Jansen Holding" {
		t.Errorf("Facts[klant] = %v, want Jansen Holding", got.Facts["klant"])
	}
}

func TestParseStatusIncomplete(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "dutch fields",
			raw:         `{"status":"INCOMPLEET","email_onderwerp":"Aanvullende stukken","email_tekst":"Graag de jaarcijfers aanleveren."}`,
			wantSubject: "Aanvullende stukken",
			wantBody:    "Graag de jaarcijfers aanleveren.",
		},
		{
			name:        "english fields",
			raw:         `{"status":"INCOMPLETE","subject":"Missing documents","body":"Please provide the annual accounts."}`,
			wantSubject: "Missing documents",
			wantBody:    "Please provide the annual accounts.",
		},
		{
			name:        "nested email object",
			raw:         `{"status":"INCOMPLEET","email":{"onderwerp":"Vraag","tekst":"Wie is de aandeelhouder?"}}`,
			wantSubject: "Vraag",
			wantBody:    "Wie is de aandeelhouder?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatus(tt.raw)
			if got.Kind != StatusIncomplete {
				t.Fatalf("Kind = %q, want incomplete", got.Kind)
			}
			if got.FollowUpSubject != tt.wantSubject {
				t.Errorf("FollowUpSubject = %q, want %q", got.FollowUpSubject, tt.wantSubject)
			}
			if got.FollowUpBody != tt.wantBody {
				t.Errorf("FollowUpBody = %q, want %q", got.FollowUpBody, tt.wantBody)
			}
		})
	}
}

func TestParseStatusUnparseable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"free text", "Het dossier is compleet en we kunnen beginnen."},
		{"json without status", `{"dossier":{"samenvatting_onderwerp":"X"}}`},
		{"unknown status value", `{"status":"MISSCHIEN"}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatus(tt.raw)
			if got.Kind != StatusUnparseable {
				t.Errorf("Kind = %q, want unparseable", got.Kind)
			}
		})
	}
}
