package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name      string
		watch     bool
		once      bool
		wantWatch bool
		wantErr   bool
	}{
		{name: "default single pass", wantWatch: false},
		{name: "explicit once", once: true, wantWatch: false},
		{name: "watch", watch: true, wantWatch: true},
		{name: "conflicting flags", watch: true, once: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			watchMode, err := resolveMode(tt.watch, tt.once)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWatch, watchMode)
		})
	}
}
