package nats

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/docqa"
)

func errorMsg(code string, description string) *nats.Msg {
	msg := nats.NewMsg("docqa.ask")
	msg.Header.Set(micro.ErrorCodeHeader, code)
	msg.Header.Set(micro.ErrorHeader, description)

	return msg
}

func TestError(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Error(nats.NewMsg("docqa.ask")))
	assert.Error(Error(nil))

	err := Error(errorMsg("400", docqa.ErrNoDocuments.Error()))
	assert.ErrorIs(err, docqa.ErrNoDocuments)
	assert.Equal("400:"+docqa.ErrNoDocuments.Error(), err.Error())

	wrapped := fmt.Errorf("%w: epic", docqa.ErrUnknownSummarySize)
	err = Error(errorMsg("400", wrapped.Error()))
	assert.ErrorIs(err, docqa.ErrUnknownSummarySize)

	err = Error(errorMsg("417", "embedding unavailable: timeout"))
	assert.Error(err)
	assert.NotErrorIs(err, docqa.ErrNoDocuments)

	var remote *RemoteError
	if assert.True(errors.As(err, &remote)) {
		assert.Equal("417", remote.Code)
	}
}

func TestErrorCode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("400", errorCode(docqa.ErrEmptyQuestion))
	assert.Equal("400", errorCode(fmt.Errorf("%w: x", docqa.ErrUnknownSummarySize)))
	assert.Equal("417", errorCode(errors.New("boom")))
	assert.Equal("417", errorCode(docqa.ErrEmbeddingUnavailable))
}
