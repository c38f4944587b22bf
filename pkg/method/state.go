// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package method

import "github.com/tempor/tempor/pkg/errutil"

// Stateful is implemented by plugins whose learned state can be exported.
// UnmarshalState must accept whatever MarshalState produced.
type Stateful interface {
	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}

// State is a portable snapshot of a plugin instance.
type State struct {
	Plugin  string
	Params  map[string]any
	Fitted  bool
	ID      string
	Learned []byte
}

type baser interface {
	base() *Base
}

// Snapshot exports a plugin instance. Learned state is included when the
// plugin is fitted and implements Stateful.
func Snapshot(e Estimator) (State, error) {
	b, ok := e.(baser)
	if !ok {
		return State{}, errutil.Unsupported().
			With("plugin", e.Name()).
			Errorf("%s does not embed a method base type", e.Name())
	}
	base := b.base()
	st := State{
		Plugin: base.name,
		Params: base.params.Map(),
		Fitted: base.fitted,
		ID:     base.id.String(),
	}
	if s, ok := e.(Stateful); ok && base.fitted {
		learned, err := s.MarshalState()
		if err != nil {
			return State{}, errutil.InvalidState().
				With("plugin", base.name).
				Wrapf(err, "failed to export learned state")
		}
		st.Learned = learned
	}
	return st, nil
}

// Restore imports a snapshot into an instance built for the same plugin,
// normally one freshly constructed from st.Params. The fitted flag is only
// restored once learned state was accepted.
func Restore(e Estimator, st State) error {
	b, ok := e.(baser)
	if !ok {
		return errutil.Unsupported().
			With("plugin", e.Name()).
			Errorf("%s does not embed a method base type", e.Name())
	}
	base := b.base()
	if st.Plugin != base.name {
		return ErrRestoreMismatch(base.name, st.Plugin)
	}
	id := base.id
	if st.ID != "" {
		parsed, err := ParseInstanceID(st.ID)
		if err != nil {
			return errutil.Configuration().With("plugin", base.name).Wrap(err)
		}
		id = parsed
	}
	if st.Fitted {
		s, stateful := e.(Stateful)
		switch {
		case stateful && st.Learned == nil:
			return errutil.Configuration().
				With("plugin", base.name).
				Errorf("snapshot of fitted %s has no learned state", base.name)
		case stateful:
			if err := s.UnmarshalState(st.Learned); err != nil {
				return errutil.Configuration().
					With("plugin", base.name).
					Wrapf(err, "failed to import learned state")
			}
		case st.Learned != nil:
			return errutil.Unsupported().
				With("plugin", base.name).
				Errorf("%s cannot import learned state", base.name)
		}
	}
	base.id = id
	base.fitted = st.Fitted
	return nil
}
