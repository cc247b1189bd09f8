package replay

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"io/ioutil"

	"github.com/bytearena/whiskers/common/recording"
	"github.com/pkg/errors"
)

// Lines longer than this are reported as an error.
const maxLineSize = 16 * 1024 * 1024

type Replayer struct {
	filename string
	archive  *zip.ReadCloser
	record   *zip.File
	metadata recording.RecordMetadata
}

func NewReplayer(filename string) (*Replayer, error) {
	archive, err := zip.OpenReader(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open record archive %s", filename)
	}

	r := &Replayer{
		filename: filename,
		archive:  archive,
	}

	var metadataFile *zip.File
	for _, file := range archive.File {
		switch file.Name {
		case recording.RecordFilename:
			r.record = file
		case recording.RecordMetadataFilename:
			metadataFile = file
		}
	}

	if r.record == nil || metadataFile == nil {
		archive.Close()
		return nil, errors.Errorf("%s is not a record archive", filename)
	}

	if err := r.readMetadata(metadataFile); err != nil {
		archive.Close()
		return nil, err
	}

	return r, nil
}

func (r *Replayer) readMetadata(file *zip.File) error {
	fd, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "could not open record metadata")
	}
	defer fd.Close()

	data, err := ioutil.ReadAll(fd)
	if err != nil {
		return errors.Wrap(err, "could not read record metadata")
	}

	if err := json.Unmarshal(data, &r.metadata); err != nil {
		return errors.Wrap(err, "invalid record metadata")
	}

	return nil
}

func (r *Replayer) GetMetadata() recording.RecordMetadata {
	return r.metadata
}

// Read streams the recorded lines, skipping empty ones. The line channel is
// closed at the end of the record; a read failure is sent on the error
// channel before that.
func (r *Replayer) Read() (chan string, chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		defer close(errc)

		fd, err := r.record.Open()
		if err != nil {
			errc <- errors.Wrap(err, "could not open record")
			return
		}
		defer fd.Close()

		scanner := bufio.NewScanner(fd)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)

		for scanner.Scan() {
			if len(scanner.Bytes()) == 0 {
				continue
			}

			lines <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			errc <- errors.Wrap(err, "could not read record")
		}
	}()

	return lines, errc
}

func (r *Replayer) Close() error {
	return r.archive.Close()
}
