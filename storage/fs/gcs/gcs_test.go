// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcs

import "testing"

func TestParseURL(t *testing.T) {
	for _, test := range []struct {
		url, bucket, prefix string
		err                 bool
	}{
		{"gs://xhc-plots", "xhc-plots", "", false},
		{"gs://xhc-plots/", "xhc-plots", "", false},
		{"gs://xhc-plots/2026/bcast/", "xhc-plots", "2026/bcast", false},
		{"gs://", "", "", true},
		{"s3://xhc-plots", "", "", true},
		{"plots", "", "", true},
	} {
		bucket, prefix, err := ParseURL(test.url)
		if (err != nil) != test.err {
			t.Errorf("ParseURL(%q): err = %v, want error %v", test.url, err, test.err)
			continue
		}
		if bucket != test.bucket || prefix != test.prefix {
			t.Errorf("ParseURL(%q) = %q, %q, want %q, %q", test.url, bucket, prefix, test.bucket, test.prefix)
		}
	}
}

func TestObjectName(t *testing.T) {
	if got := ObjectName("", "effect_ICX-48.svg"); got != "effect_ICX-48.svg" {
		t.Errorf("ObjectName without prefix = %q", got)
	}
	if got := ObjectName("2026/bcast", "effect_ICX-48.svg"); got != "2026/bcast/effect_ICX-48.svg" {
		t.Errorf("ObjectName = %q", got)
	}
}
