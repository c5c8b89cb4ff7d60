package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	// NanoidSize is the length of every row id.
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

// NanoIDSize generates an id of the given length; zero means NanoidSize.
func NanoIDSize(size int) string {
	if size <= 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
