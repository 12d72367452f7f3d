package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandeepkv93/weekgrid/internal/model"
)

// Shape names one of the accepted payload schemas.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeList is a top-level array of {title, startTime, endTime, days, color, description}.
	ShapeList
	// ShapeAcademic is {"horario_academico": {"Lunes": [{inicio, fin, curso, seccion, codigo}]}}.
	ShapeAcademic
	// ShapePlan is an object holding some key whose value has a "cursos" array
	// of courses with "horarios" [{dia, inicio, fin}].
	ShapePlan
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeAcademic:
		return "horario_academico"
	case ShapePlan:
		return "cursos"
	default:
		return "unknown"
	}
}

const academicKey = "horario_academico"

// member is one key of a JSON object, kept in payload order.
type member struct {
	Key   string
	Value json.RawMessage
}

// payload is the structurally matched input. Exactly one of the fields is
// set, according to Shape.
type payload struct {
	Shape    Shape
	List     []json.RawMessage
	Academic []member
	PlanKey  string
	Courses  []json.RawMessage
}

// Detect reports which schema raw matches. Schemas are tried in order and
// the first structural match wins, even if its content turns out unusable.
func Detect(raw []byte) (Shape, error) {
	p, err := match(raw)
	if err != nil {
		return ShapeUnknown, err
	}
	return p.Shape, nil
}

func match(raw []byte) (payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return payload{}, fmt.Errorf("%w: empty payload", model.ErrFormat)
	}
	if !json.Valid(trimmed) {
		return payload{}, fmt.Errorf("%w: payload is not valid JSON", model.ErrFormat)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return payload{}, fmt.Errorf("%w: %v", model.ErrFormat, err)
		}
		return payload{Shape: ShapeList, List: items}, nil
	case '{':
	default:
		return payload{}, fmt.Errorf("%w: expected a JSON array or object", model.ErrFormat)
	}

	top, err := objectMembers(trimmed)
	if err != nil {
		return payload{}, fmt.Errorf("%w: %v", model.ErrFormat, err)
	}
	for _, m := range top {
		if m.Key != academicKey || !isObject(m.Value) {
			continue
		}
		days, err := objectMembers(m.Value)
		if err != nil {
			return payload{}, fmt.Errorf("%w: %v", model.ErrFormat, err)
		}
		return payload{Shape: ShapeAcademic, Academic: days}, nil
	}
	for _, m := range top {
		if !isObject(m.Value) {
			continue
		}
		var plan struct {
			Cursos json.RawMessage `json:"cursos"`
		}
		if err := json.Unmarshal(m.Value, &plan); err != nil || !isArray(plan.Cursos) {
			continue
		}
		var courses []json.RawMessage
		if err := json.Unmarshal(plan.Cursos, &courses); err != nil {
			return payload{}, fmt.Errorf("%w: %v", model.ErrFormat, err)
		}
		return payload{Shape: ShapePlan, PlanKey: m.Key, Courses: courses}, nil
	}
	return payload{}, fmt.Errorf("%w: no known schedule layout", model.ErrFormat)
}

// objectMembers decodes a JSON object into its members without losing key
// order, which a map would.
func objectMembers(raw []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}
	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, member{Key: key, Value: value})
	}
	return out, nil
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}
