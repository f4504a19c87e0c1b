package hooks

import (
	"context"
	"errors"
	"testing"
)

func TestRunBestEffort(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(ctx context.Context) error
		wantOK  bool
		wantErr string
	}{
		{
			name:   "success",
			fn:     func(context.Context) error { return nil },
			wantOK: true,
		},
		{
			name:    "error is recorded",
			fn:      func(context.Context) error { return errors.New("stock service down") },
			wantOK:  false,
			wantErr: "stock service down",
		},
		{
			name:    "panic is recovered",
			fn:      func(context.Context) error { panic("boom") },
			wantOK:  false,
			wantErr: "panic: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RunBestEffort(context.Background(), "decrement-stock", tt.fn)
			if res.OK != tt.wantOK {
				t.Errorf("OK = %v, want %v", res.OK, tt.wantOK)
			}
			if res.Error != tt.wantErr {
				t.Errorf("Error = %q, want %q", res.Error, tt.wantErr)
			}
			if res.Name != "decrement-stock" {
				t.Errorf("Name = %q, want %q", res.Name, "decrement-stock")
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	ctx := context.Background()

	rec.Run(ctx, "a", func(context.Context) error { return nil })
	rec.Run(ctx, "b", func(context.Context) error { return errors.New("fail") })
	rec.Run(ctx, "c", func(context.Context) error { return nil })

	results := rec.Results()
	if len(results) != 3 {
		t.Fatalf("len(Results()) = %d, want 3", len(results))
	}
	if results[1].Name != "b" || results[1].OK {
		t.Errorf("results[1] = %+v, want failed hook b", results[1])
	}
	if got := rec.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
}
