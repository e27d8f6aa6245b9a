package main

import "testing"

func TestParseHidIds(t *testing.T) {
	ids, err := parseHidIds("044f", "b323")
	if err != nil {
		t.Fatalf("parseHidIds: %v", err)
	}
	if ids.VID != 0x044f || ids.PID != 0xb323 {
		t.Fatalf("ids = %+v", ids)
	}
}

func TestParseHidIdsAcceptsHexPrefix(t *testing.T) {
	ids, err := parseHidIds("0x044f", "0xb323")
	if err != nil {
		t.Fatalf("parseHidIds: %v", err)
	}
	if ids.VID != 0x044f || ids.PID != 0xb323 {
		t.Fatalf("ids = %+v", ids)
	}
}

func TestParseHidIdsRejectsGarbage(t *testing.T) {
	if _, err := parseHidIds("not-hex", "b323"); err == nil {
		t.Fatal("expected an error for a non-hex vid")
	}
}
