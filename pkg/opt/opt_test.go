package opt_test

import (
	"errors"
	"testing"

	// Packages
	opt "github.com/mutablelogic/go-travel-agent/pkg/opt"
	assert "github.com/stretchr/testify/assert"
)

func TestApplyEmpty(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply()
	assert.NoError(err)
	assert.NotNil(opts)
	assert.False(opts.Has(opt.MaxTokensKey))
}

func TestApplySkipsNil(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(nil, opt.WithMaxTokens(10))
	assert.NoError(err)
	assert.Equal(uint(10), opts.GetUint(opt.MaxTokensKey))
}

func TestStringOptions(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.AddString("key", " value1", "value2 "))
	assert.NoError(err)
	assert.Equal([]string{"value1", "value2"}, opts.GetStringArray("key"))
	assert.Equal("value1", opts.GetString("key"))
}

func TestSetReplaces(t *testing.T) {
	assert := assert.New(t)
	opts, err := opt.Apply(opt.WithTemperature(0.7), opt.WithTemperature(0.1))
	assert.NoError(err)
	assert.InDelta(0.1, opts.GetFloat64(opt.TemperatureKey), 1e-9)
}

func TestCompletionOptionErrors(t *testing.T) {
	assert := assert.New(t)
	_, err := opt.Apply(opt.WithMaxTokens(0))
	assert.Error(err)
	_, err = opt.Apply(opt.WithTemperature(3))
	assert.Error(err)
	_, err = opt.Apply(opt.WithTopP(-1))
	assert.Error(err)
	_, err = opt.Apply(opt.WithStopSequences())
	assert.Error(err)
}

func TestErrorAndCombine(t *testing.T) {
	assert := assert.New(t)
	sentinel := errors.New("boom")
	_, err := opt.Apply(opt.WithOpts(opt.WithTopP(0.9), opt.Error(sentinel)))
	assert.ErrorIs(err, sentinel)

	opts, err := opt.Apply(opt.WithOpts(opt.WithTopP(0.9), opt.WithStopSequences("END")))
	assert.NoError(err)
	assert.InDelta(0.9, opts.GetFloat64(opt.TopPKey), 1e-9)
	assert.Equal([]string{"END"}, opts.GetStringArray(opt.StopSequencesKey))
	assert.Equal(uint(0), opts.GetUint("missing"))
	assert.Equal(float64(0), opts.GetFloat64("missing"))
}
