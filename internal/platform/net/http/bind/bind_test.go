package bind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "shoof/internal/platform/errors"
	kit "shoof/internal/platform/testkit"
)

type classifyIn struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type listQuery struct {
	Sort   string `query:"sort" validate:"omitempty,oneof=insertion alphabetical recent"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
	Offset int64  `query:"offset" validate:"min=0"`
	All    bool   `query:"all"`
}

func TestParseJSON_OK(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"مسلسل الهيبة الحلقة 3"}`))
	got, err := ParseJSON[classifyIn](req)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.Text != "مسلسل الهيبة الحلقة 3" {
		t.Fatalf("text = %q", got.Text)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
		code perr.ErrorCode
	}{
		{"empty", "", perr.ErrorCodeJSON},
		{"malformed", `{"text":`, perr.ErrorCodeJSON},
		{"unknown field", `{"text":"x","extra":1}`, perr.ErrorCodeJSON},
		{"missing required", `{}`, perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			_, err := ParseJSON[classifyIn](req)
			if got := perr.CodeOf(err); got != tc.code {
				t.Fatalf("code = %v (%v), want %v", got, err, tc.code)
			}
		})
	}
}

func TestParseJSON_TrailingData(t *testing.T) {
	kit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"x"}`))
	if _, err := ParseJSON[classifyIn](req); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("err = %v", err)
	}
}

func TestParseJSON_MaxBytes(t *testing.T) {
	body := `{"text":"` + strings.Repeat("a", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	_, err := ParseJSON[classifyIn](req, JSONOptions{MaxBytes: 16, DisallowUnknown: true})
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("err = %v", err)
	}
}

func TestParseQuery_OK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?sort=recent&limit=20&offset=40&all=true", nil)
	q, err := ParseQuery[listQuery](req)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.Sort != "recent" || q.Limit != 20 || q.Offset != 40 || !q.All {
		t.Fatalf("q = %+v", q)
	}
}

func TestParseQuery_Errors(t *testing.T) {
	cases := map[string]string{
		"/?limit=ten":    "limit",
		"/?all=maybe":    "all",
		"/?sort=random":  "sort",
		"/?limit=100000": "limit",
		"/?offset=-1":    "offset",
	}
	for url, field := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		_, err := ParseQuery[listQuery](req)
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("%s: err = %v", url, err)
		}
		if e.Field() != field {
			t.Fatalf("%s: field = %q, want %q", url, e.Field(), field)
		}
	}
}

func TestParseQuery_NonStructTarget(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?x=1", nil)
	if _, err := ParseQuery[int](req); err == nil {
		t.Fatal("expected error for non struct target")
	}
}

func TestValidate_ShortTranslations(t *testing.T) {
	_, msg := ValidationFieldAndMessage(Get().Validator.Struct(listQuery{Limit: 501}))
	if msg != "limit must be at most 500" {
		t.Fatalf("msg = %q", msg)
	}
	_, msg = ValidationFieldAndMessage(Get().Validator.Struct(listQuery{Sort: "x"}))
	if !strings.HasPrefix(msg, "sort must be one of") {
		t.Fatalf("msg = %q", msg)
	}
}
