package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTracer struct {
	events []TreeBuilderEvent
}

func (r *recordingTracer) Record(e TreeBuilderEvent) {
	r.events = append(r.events, e)
}

func TestTreeBuilderEmitsPushAndLeafSliceEvents(t *testing.T) {
	tracer := &recordingTracer{}
	b := NewTreeBuilder(&TextLeaf{}).WithTracer(tracer)
	b.PushLeaf(&TextLeaf{bytes: []byte("hello")})

	require.NotEmpty(t, tracer.events)
	assert.Equal(t, EventPushFrame, tracer.events[0].Kind)

	src := FromString("abcdefgh")
	tracer.events = nil
	b2 := NewTreeBuilder(&TextLeaf{}).WithTracer(tracer)
	b2.PushSlice(src.root, NewInterval(1, 4))
	found := false
	for _, e := range tracer.events {
		if e.Kind == EventLeafSlice {
			found = true
			assert.Equal(t, NewInterval(1, 4), e.Interval)
		}
	}
	assert.True(t, found)
	assert.Equal(t, "bcd", (&Rope{root: b2.Build()}).String())
}

func TestTreeBuilderBuildEmpty(t *testing.T) {
	b := NewTreeBuilder(&TextLeaf{})
	n := b.Build()
	assert.Equal(t, 0, n.Len())
}

func TestTreeBuilderPushLeavesInOrder(t *testing.T) {
	b := NewTreeBuilder(&TextLeaf{})
	chunks := []Leaf{
		&TextLeaf{bytes: []byte("aaa")},
		&TextLeaf{bytes: []byte("bbb")},
		&TextLeaf{bytes: []byte("ccc")},
	}
	b.PushLeaves(chunks)
	got := (&Rope{root: b.Build()}).String()
	assert.Equal(t, "aaabbbccc", got)
}
