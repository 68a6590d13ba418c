package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCompletionContext(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		line        int
		character   int
		wantTrigger Trigger
		wantPrefix  string
		wantFile    string
		wantStart   int
	}{
		{
			name:        "empty content",
			content:     "",
			line:        1,
			character:   1,
			wantTrigger: TriggerNone,
		},
		{
			name:        "open attribute reference",
			content:     "{na",
			line:        1,
			character:   4,
			wantTrigger: TriggerAttribute,
			wantPrefix:  "na",
			wantStart:   1,
		},
		{
			name:        "closed attribute reference",
			content:     "text {a} more",
			line:        1,
			character:   14,
			wantTrigger: TriggerNone,
		},
		{
			name:        "cross reference",
			content:     "See <<int",
			line:        1,
			character:   10,
			wantTrigger: TriggerAnchor,
			wantPrefix:  "int",
			wantStart:   6,
		},
		{
			name:        "cross reference with file",
			content:     "<<b.adoc#to",
			line:        1,
			character:   12,
			wantTrigger: TriggerAnchor,
			wantPrefix:  "to",
			wantFile:    "b.adoc",
			wantStart:   9,
		},
		{
			name:        "xref macro with file",
			content:     "xref:b.adoc#",
			line:        1,
			character:   13,
			wantTrigger: TriggerAnchor,
			wantFile:    "b.adoc",
			wantStart:   12,
		},
		{
			name:        "latest opener wins",
			content:     "<<done>> {",
			line:        1,
			character:   11,
			wantTrigger: TriggerAttribute,
			wantStart:   10,
		},
		{
			name:        "anchor after closed attribute",
			content:     "{x} <<",
			line:        1,
			character:   7,
			wantTrigger: TriggerAnchor,
			wantStart:   6,
		},
		{
			name:        "second line",
			content:     "a\n{b",
			line:        2,
			character:   3,
			wantTrigger: TriggerAttribute,
			wantPrefix:  "b",
			wantStart:   3,
		},
		{
			name:        "label started",
			content:     "<<a,b",
			line:        1,
			character:   6,
			wantTrigger: TriggerNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewCompletionContext(tt.content, tt.line, tt.character)
			assert.Equal(t, tt.wantTrigger, ctx.Trigger, "trigger should match expected value")
			if tt.wantTrigger == TriggerNone {
				return
			}
			assert.Equal(t, tt.wantPrefix, ctx.Prefix, "prefix should match expected value")
			assert.Equal(t, tt.wantFile, ctx.File, "file should match expected value")
			assert.Equal(t, tt.wantStart, ctx.Start, "start should match expected value")
			assert.Equal(t, tt.line, ctx.Line)
			assert.Equal(t, tt.character, ctx.Character)
		})
	}
}

func TestNewCompletionContextAtClamps(t *testing.T) {
	ctx := NewCompletionContextAt("{ab", 99)
	assert.Equal(t, 3, ctx.Offset)
	assert.Equal(t, "ab", ctx.Prefix)

	ctx = NewCompletionContextAt("{ab", -1)
	assert.Equal(t, TriggerNone, ctx.Trigger)
}
