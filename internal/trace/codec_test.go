package trace

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Panzon1496/405Labs/internal/closedloop"
)

func TestWriteFormat(t *testing.T) {
	samples := []closedloop.Sample{
		{ElapsedMS: 0, Value: 0.5},
		{ElapsedMS: 10, Value: 1},
		{ElapsedMS: 20, Value: -3.25},
	}

	var b strings.Builder
	if err := Write(&b, samples); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "0,0.5\n10,1\n20,-3.25\n#STOP#\n"
	if b.String() != want {
		t.Errorf("wire format mismatch:\ngot  %q\nwant %q", b.String(), want)
	}
}

func TestWriteEmptyTrace(t *testing.T) {
	var b strings.Builder
	if err := Write(&b, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if b.String() != "#STOP#\n" {
		t.Errorf("expected bare terminator, got %q", b.String())
	}
}

func TestRoundTrip(t *testing.T) {
	samples := []closedloop.Sample{
		{ElapsedMS: 5, Value: 1.5},
		{ElapsedMS: 15, Value: 2.25},
		{ElapsedMS: 25, Value: 0},
	}

	var b strings.Builder
	if err := Write(&b, samples); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, got[i], samples[i])
		}
	}
}

func TestReadSkipsBlankLinesAndCR(t *testing.T) {
	in := "0,1\r\n\r\n10,2\r\n#STOP#\r\n"
	got, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 || got[1].ElapsedMS != 10 || got[1].Value != 2 {
		t.Errorf("unexpected samples: %+v", got)
	}
}

func TestReadMalformed(t *testing.T) {
	cases := []string{
		"garbage\n#STOP#\n",
		"x,1\n#STOP#\n",
		"1,notafloat\n#STOP#\n",
	}
	for _, in := range cases {
		if _, err := Read(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestReadMissingTerminator(t *testing.T) {
	_, err := Read(strings.NewReader("0,1\n10,2\n"))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestSinkEmitsWireFormat(t *testing.T) {
	var b strings.Builder
	sink := Sink(&b)

	sink([]closedloop.Sample{{ElapsedMS: 7, Value: 4}})
	if b.String() != "7,4\n#STOP#\n" {
		t.Errorf("sink output mismatch: %q", b.String())
	}
}
