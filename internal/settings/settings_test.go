package settings

import "testing"

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"BLACK_POINT", "0", false},
		{"BLACK_POINT", "255", false},
		{"BLACK_POINT", "256", true},
		{"BLACK_POINT", "-1", true},
		{"BLACK_POINT", "abc", true},
		{"SERVER_PORT", "8080", false},
		{"SERVER_PORT", "0", true},
		{"SERVER_PORT", "65536", true},
		{"WHEEL_SPIN_DURATION_MS", "9000", false},
		{"WHEEL_SPIN_DURATION_MS", "499", true},
		{"WHEEL_SPIN_DURATION_MS", "60001", true},
		{"CONTACT_PHONE", "", false},
		{"CONTACT_PHONE", "5511999999999", false},
		{"CONTACT_PHONE", "+5511999999999", true},
		{"CONTACT_PHONE", "12345", true},
		{"PRINTER_ADDRESS", "", false},
		{"PRINTER_ADDRESS", "AA:BB:CC:DD:EE:FF", false},
		{"PRINTER_ADDRESS", "aa-bb-cc-dd-ee-ff", false},
		{"PRINTER_ADDRESS", "12345678-1234-1234-1234-123456789abc", false},
		{"PRINTER_ADDRESS", "not-an-address", true},
		{"GATE_REMEMBER_UNLOCK", "anything", false},
	}

	for _, tt := range tests {
		err := ValidateSetting(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSetting(%q, %q) err=%v, wantErr=%v", tt.key, tt.value, err, tt.wantErr)
		}
	}
}

func TestDefaultSettingsCoverage(t *testing.T) {
	for _, key := range []string{
		"CONTACT_PHONE", "GATE_REMEMBER_UNLOCK", "PRINTER_ADDRESS",
		"DRY_RUN_MODE", "SERVER_PORT", "DEBUG_MODE", "WHEEL_SPIN_DURATION_MS",
	} {
		if _, ok := DefaultSettings[key]; !ok {
			t.Errorf("missing default for %s", key)
		}
	}

	if DefaultSettings["CONTACT_PHONE"].Type != SettingTypeSecret {
		t.Errorf("CONTACT_PHONE should be a secret")
	}
	if DefaultSettings["DRY_RUN_MODE"].Value != "true" {
		t.Errorf("dry run should default on")
	}
}
