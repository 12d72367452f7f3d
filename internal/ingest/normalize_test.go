package ingest

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

func newNormalizer() Normalizer {
	n := 0
	return Normalizer{
		Window: window.Week(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)),
		Loc:    time.UTC,
		Now:    func() time.Time { return time.Date(2026, 2, 12, 17, 30, 0, 0, time.UTC) },
		Rand:   rand.New(rand.NewPCG(1, 2)),
		NewID: func() string {
			n++
			return fmt.Sprintf("imp-%d", n)
		},
	}
}

func TestNormalizeListScenario(t *testing.T) {
	res, err := newNormalizer().Normalize([]byte(`[{"title":"Math","startTime":"08:00","endTime":"10:00","days":[1,3]}]`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Shape != ShapeList || res.Added() != 1 {
		t.Fatalf("unexpected result: shape=%s added=%d", res.Shape, res.Added())
	}
	a := res.Activities[0]
	if len(a.Recurrence) != 2 || a.Recurrence[0] != 1 || a.Recurrence[1] != 3 {
		t.Fatalf("unexpected recurrence %v", a.Recurrence)
	}
	if a.StartTime(time.UTC).String() != "08:00" || a.EndTime(time.UTC).String() != "10:00" {
		t.Fatalf("unexpected times %s-%s", a.StartTime(time.UTC), a.EndTime(time.UTC))
	}
	// anchored on the window's Monday
	if !model.SameDate(a.StartAt(time.UTC), time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected anchor %s", a.StartAt(time.UTC))
	}
	if a.ID != "imp-1" || !a.Color.IsPalette() {
		t.Fatalf("expected generated id and palette color, got %q %q", a.ID, a.Color)
	}
}

func TestNormalizeListDetails(t *testing.T) {
	raw := `[
		{"title":"Sunday","startTime":"09:00","endTime":"10:00","days":[7],"color":"#123456","description":"folded"},
		{"title":"Once","startTime":"12:00","endTime":"12:30"},
		{"title":"Strings","startTime":"7:15","endTime":"08:00","days":["2","9"]},
		{"title":"","startTime":"09:00","endTime":"10:00"},
		{"title":"Backwards","startTime":"10:00","endTime":"09:00"},
		{"title":"Bad time","startTime":"ten","endTime":"11:00"},
		{"title":"Bad days","startTime":"09:00","endTime":"10:00","days":[-1]},
		"not an object"
	]`
	res, err := newNormalizer().Normalize([]byte(raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Added() != 3 || res.Skipped != 5 {
		t.Fatalf("expected 3 added and 5 skipped, got %d/%d", res.Added(), res.Skipped)
	}

	sunday := res.Activities[0]
	if len(sunday.Recurrence) != 1 || sunday.Recurrence[0] != 0 {
		t.Fatalf("expected 7 folded to 0, got %v", sunday.Recurrence)
	}
	if sunday.Color != "#123456" || sunday.Description != "folded" {
		t.Fatalf("explicit fields not kept: %+v", sunday)
	}
	if !model.SameDate(sunday.StartAt(time.UTC), time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected sunday anchor, got %s", sunday.StartAt(time.UTC))
	}

	once := res.Activities[1]
	if once.IsRecurring() || !model.SameDate(once.StartAt(time.UTC), time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("one-off entry should anchor on today: %+v", once)
	}

	strs := res.Activities[2]
	// "9" folds onto 2 and collapses into the first entry
	if len(strs.Recurrence) != 1 || strs.Recurrence[0] != 2 {
		t.Fatalf("unexpected recurrence from strings %v", strs.Recurrence)
	}
	if strs.StartTime(time.UTC).String() != "07:15" {
		t.Fatalf("unexpected start %s", strs.StartTime(time.UTC))
	}
}

func TestNormalizeAcademic(t *testing.T) {
	raw := `{"horario_academico":{
		"Lunes":[{"inicio":"08:00","fin":"09:40","curso":"Cálculo","seccion":"A-101","codigo":123}],
		"Miércoles":[{"inicio":"10:00","fin":"11:40","curso":"Física","seccion":"B-2","codigo":"FI-1"}],
		"Feriado":[{"inicio":"10:00","fin":"11:40","curso":"Nada"}]
	}}`
	res, err := newNormalizer().Normalize([]byte(raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Shape != ShapeAcademic || res.Added() != 2 {
		t.Fatalf("unexpected result shape=%s added=%d", res.Shape, res.Added())
	}
	if res.Skipped != 1 {
		t.Fatalf("expected the unknown weekday entry to be skipped, got %d", res.Skipped)
	}
	calc := res.Activities[0]
	if calc.Title != "Cálculo" || calc.Description != "Aula: A-101 - Código: 123" {
		t.Fatalf("unexpected first activity %+v", calc)
	}
	if len(calc.Recurrence) != 1 || calc.Recurrence[0] != int(time.Monday) {
		t.Fatalf("unexpected recurrence %v", calc.Recurrence)
	}
	fis := res.Activities[1]
	if fis.Recurrence[0] != int(time.Wednesday) || !model.SameDate(fis.StartAt(time.UTC), time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected wednesday activity %+v", fis)
	}
}

func TestNormalizePlan(t *testing.T) {
	raw := `{"meta":{"version":2},"plan_estudios_2026":{"cursos":[
		{"nombre":"Programación","seccion":"S1","docente":"Ruiz","horarios":[
			{"dia":"Martes","inicio":"14:00","fin":"16:00"},
			{"dia":"sabado","inicio":"08:00","fin":"10:00"},
			{"dia":"Feriado","inicio":"08:00","fin":"10:00"}
		]},
		{"nombre":"Sin horario"}
	]}}`
	res, err := newNormalizer().Normalize([]byte(raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Shape != ShapePlan || res.Added() != 2 {
		t.Fatalf("unexpected result shape=%s added=%d", res.Shape, res.Added())
	}
	if res.Skipped != 1 {
		t.Fatalf("expected the unknown weekday slot to be skipped, got %d", res.Skipped)
	}
	a := res.Activities[0]
	if a.Title != "Programación" || a.Description != "Secc: S1 - Ruiz" || a.Recurrence[0] != int(time.Tuesday) {
		t.Fatalf("unexpected activity %+v", a)
	}
	if res.Activities[1].Recurrence[0] != int(time.Saturday) {
		t.Fatalf("unexpected saturday recurrence %v", res.Activities[1].Recurrence)
	}
}

func TestNormalizeEmptyObjectFails(t *testing.T) {
	res, err := newNormalizer().Normalize([]byte(`{}`))
	if !errors.Is(err, model.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if res.Added() != 0 {
		t.Fatalf("expected nothing added, got %d", res.Added())
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{``, `nope`, `42`, `"text"`, `[]`, `[{"title":"x"}]`, `{"a":{"cursos":"no"}}`} {
		if _, err := newNormalizer().Normalize([]byte(raw)); !errors.Is(err, model.ErrFormat) {
			t.Fatalf("expected ErrFormat for %q, got %v", raw, err)
		}
	}
}

func TestDetectFirstStructuralMatchWins(t *testing.T) {
	// academic wins over a later plan key, even though it is empty
	raw := []byte(`{"horario_academico":{},"plan":{"cursos":[{"nombre":"X","horarios":[{"dia":"Lunes","inicio":"08:00","fin":"09:00"}]}]}}`)
	shape, err := Detect(raw)
	if err != nil || shape != ShapeAcademic {
		t.Fatalf("expected academic shape, got %s (%v)", shape, err)
	}
	if _, err := newNormalizer().Normalize(raw); !errors.Is(err, model.ErrFormat) {
		t.Fatalf("expected ErrFormat from empty academic payload, got %v", err)
	}

	shape, err = Detect([]byte(`{"first":{"cursos":[]},"second":{"cursos":[{}]}}`))
	if err != nil || shape != ShapePlan {
		t.Fatalf("expected plan shape, got %s (%v)", shape, err)
	}
	p, _ := match([]byte(`{"first":{"cursos":[]},"second":{"cursos":[{}]}}`))
	if p.PlanKey != "first" {
		t.Fatalf("expected first matching key, got %q", p.PlanKey)
	}
}

func TestColorFallbackIsDeterministicWithSeed(t *testing.T) {
	raw := []byte(`[{"title":"A","startTime":"08:00","endTime":"09:00"},{"title":"B","startTime":"08:00","endTime":"09:00"}]`)
	first, err := newNormalizer().Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	second, _ := newNormalizer().Normalize(raw)
	for i := range first.Activities {
		if first.Activities[i].Color != second.Activities[i].Color {
			t.Fatal("seeded color choice differs between runs")
		}
	}
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"Lunes": time.Monday, "MIÉRCOLES": time.Wednesday, "miercoles": time.Wednesday,
		" Sábado ": time.Saturday, "Domingo": time.Sunday,
	}
	for in, want := range cases {
		got, ok := ParseWeekday(in)
		if !ok || got != want {
			t.Fatalf("ParseWeekday(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseWeekday("Monday"); ok {
		t.Fatal("english names are not part of the vocabulary")
	}
}
