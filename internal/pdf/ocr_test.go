package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// stubRunner renders a fixed number of pages and returns canned OCR text.
type stubRunner struct {
	pages   int
	failOCR bool
	calls   []call
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(prefix+"-"+string(rune('0'+i))+".png", nil, 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if s.failOCR {
			return nil, []byte("bad image"), errors.New("exit status 1")
		}
		page := strings.TrimSuffix(args[0][strings.LastIndex(args[0], "-")+1:], ".png")
		return []byte("page " + page), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func TestOCR_Text(t *testing.T) {
	runner := &stubRunner{pages: 2}
	o := NewOCR(OCRConfig{DPI: 200}, runner, nil)

	text, err := o.Text(context.Background(), "in.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page 1\npage 2", text)

	require.Len(t, runner.calls, 3)
	assert.Equal(t, []string{"-r", "200", "-png", "in.pdf"}, runner.calls[0].args[:4])
	assert.Equal(t, []string{"stdout", "-l", "eng"}, runner.calls[1].args[1:])
}

func TestOCR_NoPages(t *testing.T) {
	o := NewOCR(OCRConfig{}, &stubRunner{}, nil)
	_, err := o.Text(context.Background(), "in.pdf")
	assert.ErrorContains(t, err, "no images")
}

func TestOCR_BadRenderPath(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "[scans")
	require.NoError(t, os.Mkdir(tmp, 0o755))
	t.Setenv("TMPDIR", tmp)

	_, err := NewOCR(OCRConfig{}, &stubRunner{pages: 1}, nil).Text(context.Background(), "in.pdf")
	assert.ErrorIs(t, err, filepath.ErrBadPattern)
}

func TestOCR_TesseractFails(t *testing.T) {
	o := NewOCR(OCRConfig{}, &stubRunner{pages: 1, failOCR: true}, nil)
	_, err := o.Text(context.Background(), "in.pdf")
	assert.ErrorContains(t, err, "bad image")
}

func TestToolStatus(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(file string) (string, error) {
		if file == "tesseract" {
			return "/usr/bin/tesseract", nil
		}
		return "", errors.New("not found")
	}
	st := ToolStatus(OCRConfig{})
	assert.True(t, st.Tesseract)
	assert.False(t, st.Pdftoppm)
	assert.False(t, st.Ready())
	assert.Equal(t, "REGEX ONLY", st.Mode())

	lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	assert.Equal(t, "OCR READY", ToolStatus(OCRConfig{}).Mode())
}
