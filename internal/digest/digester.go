package digest

import (
	"cmp"
	"errors"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// Options tune a Walker. The zero value uses the default scalar set, no path
// exclusions and silent revisits.
type Options struct {
	// Scalars overrides the set of types hashed by their text.
	Scalars Scalars
	// Exclude is consulted with the dotted path of every member, map entry
	// and element; returning true drops it from the stream.
	Exclude func(path string) bool
	// MarkRevisits writes a marker where an already entered reference
	// appears again instead of writing nothing.
	MarkRevisits bool
	Logger       logr.Logger
}

// Walker writes the canonical byte stream of value graphs. A Walker holds no
// per-call state and may be shared between goroutines.
type Walker struct {
	opts Options
}

func New(opts Options) *Walker {
	if opts.Scalars == nil {
		opts.Scalars = defaultScalars
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &Walker{opts: opts}
}

// Walk writes the canonical stream of v to out. out is not finalized.
func (w *Walker) Walk(out io.Writer, v any) error {
	s := &state{Walker: w, out: out, guard: guard{}}
	if err := s.walk(reflect.ValueOf(v)); err != nil {
		return err
	}
	return s.err
}

type step struct {
	name    string
	index   int
	isIndex bool
}

type state struct {
	*Walker
	out   io.Writer
	guard guard
	path  []step
	err   error
}

func (s *state) walk(v reflect.Value) error {
	kind := s.opts.Scalars.Classify(v)
	switch kind {
	case Nil:
		return nil
	case Scalar:
		text, _ := s.opts.Scalars.Text(v)
		s.write(text)
		return nil
	}

	v = settle(v)
	for {
		if s.guard.enter(v) {
			if log := s.opts.Logger.V(2); log.Enabled() {
				log.Info("skipping revisited reference", "path", s.pathString(), "type", v.Type().String())
			}
			if s.opts.MarkRevisits {
				s.write(revisitMarker)
			}
			return nil
		}
		if k := v.Kind(); k != reflect.Pointer && k != reflect.Interface {
			break
		}
		v = settle(v.Elem())
	}

	switch kind {
	case Sequence:
		return s.sequence(v)
	case Mapping:
		return s.mapping(v)
	case Composite:
		return s.composite(v)
	}
	return nil
}

func (s *state) sequence(v reflect.Value) error {
	for i := range v.Len() {
		s.push(step{index: i, isIndex: true})
		if s.excluded() {
			s.pop()
			continue
		}
		err := s.walk(open(v.Index(i)))
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

type entry struct {
	key, val reflect.Value
	text     string
	typ      string
	stream   string
	present  bool
}

func (s *state) mapping(v reflect.Value) error {
	entries := make([]entry, 0, v.Len())
	it := v.MapRange()
	for it.Next() {
		e := entry{key: it.Key(), val: it.Value()}
		if s.opts.Scalars.Classify(e.val) == Nil {
			continue
		}
		if s.opts.Scalars.Classify(e.key) != Nil {
			text, err := s.keyText(e.key)
			if err != nil {
				return err
			}
			e.text, e.typ, e.present = text, concreteType(e.key).String(), true
		}
		entries = append(entries, e)
	}
	// map iteration order is randomized; order by the key's canonical text
	slices.SortStableFunc(entries, compareKeys)
	if err := s.breakTies(entries); err != nil {
		return err
	}

	for _, e := range entries {
		s.push(step{name: e.text})
		if s.excluded() {
			s.pop()
			continue
		}
		if e.present {
			s.write(e.text)
		}
		err := s.walk(e.val)
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func compareKeys(a, b entry) int {
	return cmp.Or(strings.Compare(a.text, b.text), strings.Compare(a.typ, b.typ))
}

// breakTies orders runs of entries whose keys render identically (pointer
// keys to equal values, NaN, struct keys whose members concatenate alike)
// by the canonical stream of their values. entries must already be sorted
// with compareKeys.
func (s *state) breakTies(entries []entry) error {
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && compareKeys(entries[start], entries[end]) == 0 {
			end++
		}
		if run := entries[start:end]; len(run) > 1 {
			for i := range run {
				s.push(step{name: run[i].text})
				stream, err := s.render(run[i].val, s.opts.Exclude)
				s.pop()
				if err != nil {
					return err
				}
				run[i].stream = stream
			}
			slices.SortStableFunc(run, func(a, b entry) int { return strings.Compare(a.stream, b.stream) })
		}
		start = end
	}
	return nil
}

// keyText renders a map key. Non-scalar keys are rendered through their own
// canonical stream.
func (s *state) keyText(k reflect.Value) (string, error) {
	if text, ok := s.opts.Scalars.Text(k); ok {
		return text, nil
	}
	return s.render(k, nil)
}

// render returns the canonical stream of v without writing it, guarded by a
// copy of the current visited set so that a value referring back into the
// graph still terminates and the real walk is left untouched.
func (s *state) render(v reflect.Value, exclude func(string) bool) (string, error) {
	var b strings.Builder
	sub := &state{
		Walker: &Walker{opts: Options{
			Scalars:      s.opts.Scalars,
			Exclude:      exclude,
			MarkRevisits: s.opts.MarkRevisits,
			Logger:       logr.Discard(),
		}},
		out:    &b,
		guard:  s.guard.clone(),
		path:   slices.Clone(s.path),
	}
	if err := sub.walk(v); err != nil {
		return "", err
	}
	return b.String(), sub.err
}

func (s *state) composite(v reflect.Value) error {
	slots, err := s.opts.Scalars.Fields(v)
	if err != nil {
		return s.fail(err)
	}
	for _, slot := range slots {
		if slot.Excluded {
			continue
		}
		s.push(step{name: slot.Name})
		if s.excluded() {
			s.pop()
			continue
		}
		s.write(slot.Name)
		err := s.walk(slot.Value)
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *state) fail(err error) error {
	var ie *IntrospectionError
	if errors.As(err, &ie) && ie.Path == "" {
		ie.Path = s.pathString()
	}
	return err
}

func (s *state) write(text string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.out, text)
}

func (s *state) push(st step) { s.path = append(s.path, st) }
func (s *state) pop()         { s.path = s.path[:len(s.path)-1] }

func (s *state) excluded() bool {
	return s.opts.Exclude != nil && s.opts.Exclude(s.pathString())
}

func (s *state) pathString() string {
	var b strings.Builder
	for i, st := range s.path {
		if i > 0 {
			b.WriteByte('.')
		}
		if st.isIndex {
			b.WriteString(strconv.Itoa(st.index))
			continue
		}
		b.WriteString(st.name)
	}
	return b.String()
}

func concreteType(v reflect.Value) reflect.Type {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v.Type()
}
