package schedules

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/routines/internal/cli/clitest"
	"github.com/julianstephens/routines/internal/testfixtures"
)

func TestAddCmd_Recurring(t *testing.T) {
	env := clitest.New(t)
	r := env.AddRoutine(t)

	cmd := &AddCmd{Routine: "Morning run", At: "07:00", Days: "mon,wed"}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("schedule add failed: %v", err)
	}

	instances, _ := env.Store.GetInstancesForRoutine(r.ID)
	if len(instances) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(instances))
	}
	inst := instances[0]
	if inst.Name != "Morning run" {
		t.Errorf("expected name to default to the routine's, got %q", inst.Name)
	}

	ids := env.AlarmIDs(t)
	if len(ids) != 6 {
		t.Fatalf("expected 6 alarms (3 steps x 2 days), got %d: %v", len(ids), ids)
	}
	sort.Strings(ids)
	want := "routine_" + inst.ID + "_step_2_wednesday"
	if ids[len(ids)-1] != want {
		t.Errorf("expected %s, got %s", want, ids[len(ids)-1])
	}
	if !strings.Contains(env.Out.String(), "3 of 3") && !strings.Contains(env.Out.String(), "6 of 6") {
		t.Errorf("expected report in output: %q", env.Out.String())
	}
}

func TestAddCmd_OneTimeAndDisabled(t *testing.T) {
	env := clitest.New(t)
	env.AddRoutine(t)

	if err := (&AddCmd{Routine: "routine-run", At: "05:30"}).Run(env.Ctx); err != nil {
		t.Fatalf("schedule add failed: %v", err)
	}
	regs, err := env.Ctx.Timer.List()
	if err != nil {
		t.Fatalf("failed to list alarms: %v", err)
	}
	if len(regs) != 3 {
		t.Fatalf("expected 3 one-time alarms, got %d", len(regs))
	}
	// 05:30 has passed at 06:00, so the run rolls to tomorrow.
	tomorrow := testfixtures.ReferenceTime().AddDate(0, 0, 1)
	for _, reg := range regs {
		if reg.FireAt.Day() != tomorrow.Day() {
			t.Errorf("%s fires %v, expected tomorrow", reg.ID, reg.FireAt)
		}
	}

	if err := (&AddCmd{Routine: "routine-run", At: "08:00", Days: "daily", Disabled: true}).Run(env.Ctx); err != nil {
		t.Fatalf("schedule add failed: %v", err)
	}
	if got := len(env.AlarmIDs(t)); got != 3 {
		t.Errorf("disabled schedule must not register alarms, have %d", got)
	}
}

func TestAddCmd_Validate(t *testing.T) {
	tests := []struct {
		at, days string
	}{
		{"25:00", ""},
		{"7am", ""},
		{"07:00", "funday"},
	}
	for _, tt := range tests {
		if err := (&AddCmd{Routine: "x", At: tt.at, Days: tt.days}).Validate(); err == nil {
			t.Errorf("expected error for at=%q days=%q", tt.at, tt.days)
		}
	}
}

func TestAddCmd_UnknownRoutine(t *testing.T) {
	env := clitest.New(t)
	if err := (&AddCmd{Routine: "nope", At: "07:00"}).Run(env.Ctx); err == nil {
		t.Error("expected error for unknown routine")
	}
}

func TestEditCmd_ChangesDays(t *testing.T) {
	env := clitest.New(t)
	r := env.AddRoutine(t)
	env.AddSchedule(t, testfixtures.Instance("inst-1", r.ID, 7, 0, time.Monday, time.Tuesday))

	days := "fri"
	at := "09:15"
	if err := (&EditCmd{Schedule: "inst", Days: &days, At: &at}).Run(env.Ctx); err != nil {
		t.Fatalf("schedule edit failed: %v", err)
	}

	ids := env.AlarmIDs(t)
	sort.Strings(ids)
	want := []string{
		"routine_inst-1_step_0_friday",
		"routine_inst-1_step_1_friday",
		"routine_inst-1_step_2_friday",
	}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, ids)
	}

	inst, _ := env.Store.GetInstance("inst-1")
	if inst.StartTime.String() != "09:15" {
		t.Errorf("expected start 09:15, got %s", inst.StartTime)
	}
}

func TestEnableDisableCmd(t *testing.T) {
	env := clitest.New(t)
	r := env.AddRoutine(t)
	env.AddSchedule(t, testfixtures.Instance("inst-1", r.ID, 7, 0, time.Monday))

	if err := (&DisableCmd{Schedule: "inst-1"}).Run(env.Ctx); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if ids := env.AlarmIDs(t); len(ids) != 0 {
		t.Errorf("expected no alarms after disable, got %v", ids)
	}
	if !strings.Contains(env.Out.String(), "3 reminders cancelled") {
		t.Errorf("expected cancel summary, got %q", env.Out.String())
	}

	if err := (&EnableCmd{Schedule: "inst-1"}).Run(env.Ctx); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if got := len(env.AlarmIDs(t)); got != 3 {
		t.Errorf("expected 3 alarms after enable, got %d", got)
	}
}

func TestDeleteCmd(t *testing.T) {
	env := clitest.New(t)
	r := env.AddRoutine(t)
	env.AddSchedule(t, testfixtures.Instance("inst-1", r.ID, 7, 0, time.Monday))
	env.Answer = true

	if err := (&DeleteCmd{Schedule: "inst-1"}).Run(env.Ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if env.Prompts != 1 {
		t.Errorf("expected one prompt, got %d", env.Prompts)
	}
	if ids := env.AlarmIDs(t); len(ids) != 0 {
		t.Errorf("expected alarms cancelled, got %v", ids)
	}
	if _, err := env.Store.GetRoutine(r.ID); err != nil {
		t.Errorf("routine must survive schedule delete: %v", err)
	}
}

func TestListAndNextCmd(t *testing.T) {
	env := clitest.New(t)
	r := env.AddRoutine(t)
	env.AddSchedule(t, testfixtures.Instance("inst-1", r.ID, 7, 0, time.Wednesday))
	env.AddSchedule(t, testfixtures.Instance("inst-2", r.ID, 6, 30))

	if err := (&ListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"Schedule inst-1", "07:00 • Wed", "06:30 • Once", "today 06:30", "Wed Mar 4 07:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	env.Out.Reset()
	if err := (&NextCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got := env.Out.String(); got != "Schedule inst-2: today 06:30\n" {
		t.Errorf("unexpected next output: %q", got)
	}

	env.Out.Reset()
	if err := (&NextCmd{Schedule: "inst-1"}).Run(env.Ctx); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got := env.Out.String(); got != "Schedule inst-1: Wed Mar 4 07:00\n" {
		t.Errorf("unexpected next output: %q", got)
	}
}

func TestFindInstance_AmbiguousPrefix(t *testing.T) {
	env := clitest.New(t)
	r := env.AddRoutine(t)
	env.AddSchedule(t, testfixtures.Instance("inst-1", r.ID, 7, 0, time.Monday))
	env.AddSchedule(t, testfixtures.Instance("inst-2", r.ID, 8, 0, time.Monday))

	_, err := env.Ctx.FindInstance("inst")
	if err == nil || !strings.Contains(err.Error(), "matches 2 schedules") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}
