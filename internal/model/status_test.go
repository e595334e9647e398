package model

import "testing"

func TestStatusSetCancellable(t *testing.T) {
	set := StatusSet{
		Confirmed: Status{UUID: "uuid-confirmed", Name: "confirmada"},
		Scheduled: Status{UUID: "uuid-scheduled", Name: "agendada"},
		Cancelled: Status{UUID: "uuid-cancelled", Name: "cancelada"},
	}
	if !set.Cancellable("uuid-confirmed") {
		t.Error("confirmed reservation should be cancellable")
	}
	if !set.Cancellable("uuid-scheduled") {
		t.Error("scheduled reservation should be cancellable")
	}
	if set.Cancellable("uuid-cancelled") {
		t.Error("cancelled reservation should not be cancellable again")
	}
	if set.Cancellable("uuid-unknown") {
		t.Error("unknown status should not be cancellable")
	}

	// Without a scheduled status, only confirmed qualifies and the empty
	// status ID must not accidentally match the zero Scheduled value.
	sparse := StatusSet{
		Confirmed: Status{UUID: "uuid-confirmed"},
		Cancelled: Status{UUID: "uuid-cancelled"},
	}
	if !sparse.Cancellable("uuid-confirmed") {
		t.Error("confirmed should be cancellable in a sparse set")
	}
	if sparse.Cancellable("") {
		t.Error("empty status ID must not be cancellable")
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole("admin") != RoleAdmin {
		t.Error(`ParseRole("admin") should be RoleAdmin`)
	}
	for _, s := range []string{"user", "", "ADMIN", "owner"} {
		if ParseRole(s) != RoleUser {
			t.Errorf("ParseRole(%q) should degrade to RoleUser", s)
		}
	}
}
