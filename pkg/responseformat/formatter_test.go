package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Origin string `json:"origin"`
	Count  int64  `json:"count"`
}

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		accept      string
		wantType    string
		wantMsgPack bool
	}{
		{"default json", "/analyze", "", ContentTypeJSON, false},
		{"format param", "/analyze?format=msgpack", "", ContentTypeMsgPack, true},
		{"accept header", "/analyze", ContentTypeMsgPack, ContentTypeMsgPack, true},
		{"unknown format falls back to json", "/analyze?format=xml", "", ContentTypeJSON, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			err := NewFormatter().WriteResponse(rec, req, http.StatusCreated, sample{Origin: "ONT", Count: 7}, map[string]string{"X-Test": "1"})
			if err != nil {
				t.Fatalf("WriteResponse: %v", err)
			}

			if rec.Code != http.StatusCreated {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("content type = %q, want %q", got, tt.wantType)
			}
			if rec.Header().Get("X-Test") != "1" || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Errorf("headers = %v", rec.Header())
			}

			var got sample
			if tt.wantMsgPack {
				dec := msgpack.NewDecoder(rec.Body)
				dec.SetCustomStructTag("json")
				err = dec.Decode(&got)
			} else {
				err = json.NewDecoder(rec.Body).Decode(&got)
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Origin != "ONT" || got.Count != 7 {
				t.Errorf("decoded %+v", got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()

	if err := NewFormatter().WriteError(rec, req, http.StatusBadRequest, "Origin and destination cannot be the same."); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Origin and destination cannot be the same." {
		t.Errorf("error = %q", body.Error)
	}
}
