package recording

type EmptyRecorder struct{}

func MakeEmptyRecorder() EmptyRecorder {
	return EmptyRecorder{}
}

func (r EmptyRecorder) Record(msg string) error {
	return nil
}

func (r EmptyRecorder) Close() error {
	return nil
}
