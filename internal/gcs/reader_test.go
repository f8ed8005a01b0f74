package gcs

import (
	"strings"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://receipts/2024/01/supermart.txt", "receipts", "2024/01/supermart.txt", false},
		{"gs://b/o", "b", "o", false},
		{"s3://receipts/file.txt", "", "", true},
		{"gs://receipts", "", "", true},
		{"gs://receipts/", "", "", true},
		{"gs:///file.txt", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	got, err := readText(strings.NewReader("Paid ₹1,200 at Big Bazaar"), 1024)
	if err != nil {
		t.Fatalf("readText: %v", err)
	}
	if got != "Paid ₹1,200 at Big Bazaar" {
		t.Errorf("readText = %q", got)
	}
}

func TestReadText_TooLarge(t *testing.T) {
	if _, err := readText(strings.NewReader(strings.Repeat("a", 11)), 10); err == nil {
		t.Error("expected error for oversized object")
	}
	if _, err := readText(strings.NewReader(strings.Repeat("a", 10)), 10); err != nil {
		t.Errorf("object at the limit should be accepted: %v", err)
	}
}

func TestReadText_Binary(t *testing.T) {
	if _, err := readText(strings.NewReader("%PDF-1.7\xff\xfe"), 1024); err == nil {
		t.Error("expected error for non-UTF-8 content")
	}
}
