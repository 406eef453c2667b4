package ongeul

import (
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"testing"
)

func newTestRouter() *CompositionRouter {
	return NewCompositionRouter(DefaultAutoCommitTargets, zap.NewNop().Sugar())
}

func TestRouterApply(t *testing.T) {
	tests := []struct {
		name   string
		result ProcessResult
		ops    []string
	}{
		{
			name:   "commit only",
			result: ProcessResult{Committed: "가", Handled: true},
			ops:    []string{"insert:가", "unmark"},
		},
		{
			name:   "commit and compose",
			result: ProcessResult{Committed: "한", Composing: "ㄱ", Handled: true},
			ops:    []string{"insert:한", "mark:ㄱ"},
		},
		{
			name:   "compose only",
			result: ProcessResult{Composing: "ㅎ", Handled: true},
			ops:    []string{"mark:ㅎ"},
		},
		{
			name:   "empty clears",
			result: ProcessResult{},
			ops:    []string{"unmark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			assert.NoError(t, newTestRouter().Apply(tt.result, client))
			assert.Equal(t, tt.ops, client.ops)
		})
	}
}

func TestRouterFocusLossOnAutoCommitTarget(t *testing.T) {
	router := newTestRouter()
	result := ProcessResult{Committed: "가"}

	client := &fakeClient{}
	assert.NoError(t, router.OnFocusLoss(result, "com.jetbrains.goland", client))
	assert.Empty(t, client.inserted)
	assert.Equal(t, []string{"unmark"}, client.ops)

	client = &fakeClient{}
	assert.NoError(t, router.Apply(result, client))
	assert.Equal(t, []string{"가"}, client.inserted)
}

func TestRouterFocusLossOnOrdinaryTarget(t *testing.T) {
	client := &fakeClient{}
	assert.NoError(t, newTestRouter().OnFocusLoss(ProcessResult{Committed: "가"}, "com.apple.TextEdit", client))
	assert.Equal(t, []string{"가"}, client.inserted)
}

func TestRouterAutoCommitMatchesPrefix(t *testing.T) {
	router := newTestRouter()

	assert.True(t, router.AutoCommits("com.jetbrains.intellij"))
	assert.True(t, router.AutoCommits("com.google.android.studio"))
	assert.False(t, router.AutoCommits("org.jetbrains"))
	assert.False(t, router.AutoCommits(""))
}

func TestRouterNilClient(t *testing.T) {
	assert.NoError(t, newTestRouter().Apply(ProcessResult{Committed: "가"}, nil))
}

func TestRouterReplacesAutoCommitTargetsConcurrently(t *testing.T) {
	router := newTestRouter()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			router.SetAutoCommitTargets([]string{"org.example."})
		}
	}()
	for i := 0; i < 100; i++ {
		router.AutoCommits("com.jetbrains.goland")
	}
	<-done

	assert.True(t, router.AutoCommits("org.example.editor"))
	assert.False(t, router.AutoCommits("com.jetbrains.goland"))
}
