package replay

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/bytearena/whiskers/common/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Replayer) []string {
	lines, errc := r.Read()

	res := make([]string, 0)
	for line := range lines {
		res = append(res, line)
	}

	require.NoError(t, <-errc)
	return res
}

func TestRecordThenReplay(t *testing.T) {
	dir, err := ioutil.TempDir("", "whiskers-record")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := path.Join(dir, "record.zip")

	recorder := recording.MakeArchiveRecorder(filename, recording.RecordMetadata{
		SandboxID: "sandbox",
		Width:     1280,
		Height:    720,
		Step:      0.05,
	})

	for _, msg := range []string{`{"tick":1}`, `{"tick":2}`, `{"tick":3}`} {
		require.NoError(t, recorder.Record(msg))
	}

	require.NoError(t, recorder.Close())
	require.NoError(t, recorder.Close())
	assert.Error(t, recorder.Record(`{"tick":4}`))

	replayer, err := NewReplayer(filename)
	require.NoError(t, err)
	defer replayer.Close()

	metadata := replayer.GetMetadata()
	assert.Equal(t, "sandbox", metadata.SandboxID)
	assert.Equal(t, 1280.0, metadata.Width)
	assert.Equal(t, 0.05, metadata.Step)
	assert.NotEmpty(t, metadata.Date)

	assert.Equal(t, []string{`{"tick":1}`, `{"tick":2}`, `{"tick":3}`}, readAll(t, replayer))

	// a record can be read again
	assert.Len(t, readAll(t, replayer), 3)
}

func TestReplayRejectsOtherFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "whiskers-record")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = NewReplayer(path.Join(dir, "missing.zip"))
	assert.Error(t, err)

	notzip := path.Join(dir, "dataset.json")
	require.NoError(t, ioutil.WriteFile(notzip, []byte(`{"data":[],"labels":[]}`), 0644))

	_, err = NewReplayer(notzip)
	assert.Error(t, err)
}

func TestEmptyRecorder(t *testing.T) {
	var recorder recording.Recorder = recording.MakeEmptyRecorder()

	assert.NoError(t, recorder.Record("anything"))
	assert.NoError(t, recorder.Close())
}
