package indicator

import "testing"

func TestStateApply(t *testing.T) {
	st := NewState()
	if st.Level != LevelOff || st.Date != InitialDate {
		t.Fatalf("unexpected initial state %+v", st)
	}

	if !st.Apply(Parse("2_D1109")) {
		t.Fatalf("expected date change")
	}
	if st != (State{Level: LevelNotice, Date: "1109"}) {
		t.Fatalf("unexpected state %+v", st)
	}

	// Short date: level applies, date kept.
	if st.Apply(Parse("1_D110")) {
		t.Fatalf("short date must not change the date")
	}
	if st != (State{Level: LevelNormal, Date: "1109"}) {
		t.Fatalf("unexpected state %+v", st)
	}

	// Long date is rejected too.
	st.Apply(Parse("1_D11090"))
	if st.Date != "1109" {
		t.Fatalf("long date accepted: %+v", st)
	}

	// Unknown levels are kept raw.
	st.Apply(Parse("17_x"))
	if st.Level != 17 || st.Date != "1109" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestStateClearKeepsDate(t *testing.T) {
	st := NewState()
	st.Apply(Parse("3_D1225"))
	st.Apply(Parse("OFF"))

	if st != (State{Level: LevelOff, Date: "1225"}) {
		t.Fatalf("unexpected state after clear %+v", st)
	}
}

func TestStateApplyIsIdempotent(t *testing.T) {
	once := NewState()
	once.Apply(Parse("2_D0704"))

	twice := NewState()
	twice.Apply(Parse("2_D0704"))
	if twice.Apply(Parse("2_D0704")) {
		t.Errorf("second apply reported a date change")
	}

	if once != twice {
		t.Fatalf("%+v != %+v", once, twice)
	}
}

func TestStateIgnoresUnrecognized(t *testing.T) {
	st := NewState()
	st.Apply(Parse("2_D0704"))
	before := st

	st.Apply(Parse("garbage"))
	if st != before {
		t.Fatalf("unrecognized command changed state: %+v", st)
	}
}
