package orders

import "testing"

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("123456789"); err == nil {
		t.Error("9 characters accepted, want rejection before any network call")
	}
	if err := ValidateDescription("1234567890"); err != nil {
		t.Errorf("10 characters rejected: %v", err)
	}
	// Whitespace padding does not count toward the minimum.
	if err := ValidateDescription("   court   "); err == nil {
		t.Error("padded short description accepted")
	}
}

func TestValidateDeliveryCode(t *testing.T) {
	cases := []struct {
		code string
		ok   bool
	}{
		{"123456", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
		{"12 456", false},
	}
	for _, c := range cases {
		err := ValidateDeliveryCode(c.code)
		if c.ok && err != nil {
			t.Errorf("ValidateDeliveryCode(%q) = %v, want ok", c.code, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ValidateDeliveryCode(%q) accepted, want error", c.code)
		}
	}
}
