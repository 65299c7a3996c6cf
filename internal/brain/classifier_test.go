package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyYes(t *testing.T) {
	c := NewClassifier(&fakeClient{response: "yes"})
	assert.True(t, c.Classify(context.Background(), "make me a coin"))
}

func TestClassifyToleratesDecoration(t *testing.T) {
	c := NewClassifier(&fakeClient{response: " Yes.\n"})
	assert.True(t, c.Classify(context.Background(), "make me a coin"))
}

func TestClassifyNo(t *testing.T) {
	c := NewClassifier(&fakeClient{response: "no"})
	assert.False(t, c.Classify(context.Background(), "nice weather today"))
}

func TestClassifyFailsClosedOnUnexpectedOutput(t *testing.T) {
	c := NewClassifier(&fakeClient{response: "it depends on what you mean"})
	assert.False(t, c.Classify(context.Background(), "hmm"))
}

func TestClassifyFailsClosedOnError(t *testing.T) {
	c := NewClassifier(&fakeClient{err: errors.New("upstream down")})
	assert.False(t, c.Classify(context.Background(), "make me a coin"))
}
