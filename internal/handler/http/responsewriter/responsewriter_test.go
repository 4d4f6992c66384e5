package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Zero(t, w.BytesWritten())
	assert.False(t, w.Written())
}

func TestWriteHeader_FirstCallWins(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.StatusCode())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, w.Written())
}

func TestWrite_CountsBytesAndImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = w.Write([]byte(", world"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, 12, w.BytesWritten())
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Equal(t, "hello, world", rec.Body.String())
}

func TestFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	w.Flush()

	assert.True(t, rec.Flushed)
	assert.True(t, w.Written())
}

func TestUnwrap_ResponseController(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	assert.Same(t, rec, w.Unwrap())
	require.NoError(t, http.NewResponseController(w).Flush())
	assert.True(t, rec.Flushed)
}
