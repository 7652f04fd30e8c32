package test

import (
	"io/ioutil"
	"os"
	"testing"
)

// CreateTempFile writes content into a new temp file, removed when the test ends.
func CreateTempFile(tb testing.TB, name string, content []byte) string {
	tb.Helper()

	tmpfile, err := ioutil.TempFile("", name+".*.testfile")
	if err != nil {
		tb.Fatalf("unexpectedly failed creating the temp file: %v", err)
	}

	if _, err := tmpfile.Write(content); err != nil {
		tb.Fatalf("unexpectedly failed writing to the temp file: %v", err)
	}

	if err := tmpfile.Close(); err != nil {
		tb.Fatalf("unexpectedly failed closing the temp file: %v", err)
	}

	tb.Cleanup(func() { os.Remove(tmpfile.Name()) })

	return tmpfile.Name()
}

// CreateTempDir creates a new temp directory, removed when the test ends.
func CreateTempDir(tb testing.TB, name string) string {
	tb.Helper()

	tmpDir, err := ioutil.TempDir("", name+"-testdir-*")
	if err != nil {
		tb.Fatalf("unexpectedly failed creating the temp dir: %v", err)
	}

	tb.Cleanup(func() { os.RemoveAll(tmpDir) })

	return tmpDir
}
