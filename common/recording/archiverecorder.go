package recording

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/bytearena/whiskers/common/utils"
	"github.com/pkg/errors"
)

// ArchiveRecorder buffers the frames in memory and writes them, with their
// metadata, to a zip archive on Close.
type ArchiveRecorder struct {
	buffer   bytes.Buffer
	filename string
	metadata RecordMetadata
	closed   bool
}

func MakeArchiveRecorder(filename string, metadata RecordMetadata) *ArchiveRecorder {
	if metadata.Date == "" {
		metadata.Date = time.Now().Format(time.RFC3339)
	}

	return &ArchiveRecorder{
		filename: filename,
		metadata: metadata,
	}
}

func (r *ArchiveRecorder) GetFilename() string {
	return r.filename
}

func (r *ArchiveRecorder) Record(msg string) error {
	if r.closed {
		return errors.New("recorder is closed")
	}

	r.buffer.WriteString(msg)
	r.buffer.WriteByte('\n')

	return nil
}

func (r *ArchiveRecorder) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	metadata, err := json.Marshal(r.metadata)
	if err != nil {
		return errors.Wrap(err, "could not serialize record metadata")
	}

	file, err := os.Create(r.filename)
	if err != nil {
		return errors.Wrap(err, "could not create record archive")
	}
	defer file.Close()

	archive := zip.NewWriter(file)

	files := []struct {
		Name string
		Body []byte
	}{
		{Name: RecordMetadataFilename, Body: metadata},
		{Name: RecordFilename, Body: r.buffer.Bytes()},
	}

	for _, f := range files {
		w, err := archive.Create(f.Name)
		if err != nil {
			return errors.Wrapf(err, "could not add %s to record archive", f.Name)
		}

		if _, err := w.Write(f.Body); err != nil {
			return errors.Wrapf(err, "could not write %s to record archive", f.Name)
		}
	}

	if err := archive.Close(); err != nil {
		return errors.Wrap(err, "could not write record archive")
	}

	utils.Debug("recorder", "wrote record archive "+r.filename)

	return nil
}
