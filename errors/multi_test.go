package errors

import (
	"reflect"
	"strings"
	"testing"
)

func TestAddToMultiErr(t *testing.T) {
	specs := map[string]struct {
		src multiErr
		add []error
		exp multiErr
	}{
		"Add single error": {src: MultiErr, add: []error{ErrNotFound}, exp: multiErr{ErrNotFound}},
		"Add multiple":     {src: MultiErr, add: []error{ErrNotFound, ErrEmpty}, exp: multiErr{ErrNotFound, ErrEmpty}},
		"Add multiErr should be flattened": {
			src: MultiErr, add: []error{MultiErr.With(ErrNotFound).With(ErrEmpty)}, exp: multiErr{ErrNotFound, ErrEmpty},
		},
		"Add empty multiErr should be skipped": {
			src: MultiErr, add: []error{MultiErr}, exp: multiErr{},
		},
		"Add duplicates":            {src: MultiErr, add: []error{ErrNotFound, ErrNotFound}, exp: multiErr{ErrNotFound, ErrNotFound}},
		"Add nothing":               {src: MultiErr, exp: multiErr{}},
		"Add nil should be skipped": {src: MultiErr, add: []error{nil}, exp: multiErr{}},
	}
	for msg, spec := range specs {
		t.Run(msg, func(t *testing.T) {
			me := spec.src
			for _, v := range spec.add {
				me = me.With(v)
			}
			if exp, got := spec.exp, me; !reflect.DeepEqual(exp, got) {
				t.Errorf("expected %v but got %v", exp, got)
			}
		})
	}
}

func TestMultiErrIsEmpty(t *testing.T) {
	specs := map[string]struct {
		src multiErr
		exp bool
	}{
		"Single error": {src: MultiErr.With(ErrNotFound), exp: false},
		"Empty":        {src: MultiErr, exp: true},
	}
	for msg, spec := range specs {
		t.Run(msg, func(t *testing.T) {
			if exp, got := spec.exp, spec.src.IsEmpty(); exp != got {
				t.Errorf("expected %v but got %v", exp, got)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrUserRejected); err != ErrUserRejected {
		t.Fatalf("single error must be returned as is, got %v", err)
	}
	err := Append(ErrUserRejected, nil, ErrSigningFailed)
	if !ErrUserRejected.Is(err) || !ErrSigningFailed.Is(err) {
		t.Fatalf("both errors must be found in %v", err)
	}
	if !strings.HasPrefix(err.Error(), "2 errors occurred") {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestMultiErrCodeRegistered(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(multiErrCode, "fails")
}
