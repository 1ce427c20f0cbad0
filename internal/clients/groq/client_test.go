package groq

import "testing"

func TestDecodeJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantKey string
		wantVal string
		wantErr bool
	}{
		{
			name:    "plain object",
			text:    `{"resolved_query": "Tesla overview"}`,
			wantKey: "resolved_query",
			wantVal: "Tesla overview",
		},
		{
			name:    "fenced json",
			text:    "```json\n{\"resolved_query\": \"Tesla overview\"}\n```",
			wantKey: "resolved_query",
			wantVal: "Tesla overview",
		},
		{
			name:    "plain fences",
			text:    "```\n{\"summary\": \"ok\"}\n```",
			wantKey: "summary",
			wantVal: "ok",
		},
		{
			name:    "lead-in prose",
			text:    `Here is the JSON you asked for: {"summary": "ok"} hope that helps`,
			wantKey: "summary",
			wantVal: "ok",
		},
		{
			name:    "empty completion",
			text:    "   ",
			wantErr: true,
		},
		{
			name:    "no object at all",
			text:    "sorry, I cannot answer that",
			wantErr: true,
		},
		{
			name:    "malformed object",
			text:    `{"summary": "ok"`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := DecodeJSONObject(tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("DecodeJSONObject(%q) succeeded, want error", tc.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSONObject(%q) error: %v", tc.text, err)
			}
			got, ok := obj[tc.wantKey].(string)
			if !ok || got != tc.wantVal {
				t.Fatalf("obj[%q] = %v, want %q", tc.wantKey, obj[tc.wantKey], tc.wantVal)
			}
		})
	}
}
