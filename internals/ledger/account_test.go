package ledger

import (
	"bytes"
	"testing"
)

func TestEventAccountRoundTrip(t *testing.T) {
	in := EventAccount{
		Authority:     testKey(7),
		EventID:       "evt-abc",
		Name:          "CS 101 Lecture",
		StartTime:     1000,
		EndTime:       4600,
		AttendeeCount: 3,
		Bump:          255,
	}
	out, err := DecodeEventAccount(in.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *out != in {
		t.Fatalf("round trip beda: %+v vs %+v", out, in)
	}
}

func TestOwnerBytesAtFixedOffset(t *testing.T) {
	// Kontrak scoped query: 32 byte pemilik persis setelah discriminator.
	ev := EventAccount{Authority: testKey(5), EventID: "e", Name: "n"}
	att := AttendanceAccount{Event: Address(testKey(6)), Attendee: testKey(7)}
	cls := ClassAccount{Teacher: testKey(8), ClassID: "c", Name: "n"}
	ca := ClassAttendanceAccount{Class: Address(testKey(9)), Student: testKey(10), FirstName: "A", LastName: "B"}

	cases := []struct {
		name  string
		data  []byte
		owner [32]byte
	}{
		{"event", ev.Encode(), ev.Authority},
		{"attendance", att.Encode(), att.Event},
		{"class", cls.Encode(), cls.Teacher},
		{"class_attendance", ca.Encode(), ca.Class},
	}
	for _, tc := range cases {
		if !bytes.Equal(tc.data[OwnerOffset:OwnerOffset+32], tc.owner[:]) {
			t.Errorf("%s: pemilik tidak di offset %d", tc.name, OwnerOffset)
		}
	}
}

func TestDecodeRejectsWrongDiscriminator(t *testing.T) {
	ev := EventAccount{Authority: testKey(1), EventID: "e", Name: "n"}
	if _, err := DecodeClassAccount(ev.Encode()); err == nil {
		t.Fatal("decode lintas jenis harus gagal")
	}
	if _, err := DecodeEventAccount([]byte{1, 2, 3}); err == nil {
		t.Fatal("data terpotong harus gagal")
	}
}

func TestClassAttendanceRoundTrip(t *testing.T) {
	in := ClassAttendanceAccount{
		Class:     Address(testKey(2)),
		Student:   testKey(3),
		Session:   4,
		FirstName: "Budi",
		LastName:  "Santoso",
		Timestamp: 1234567,
		Bump:      254,
	}
	out, err := DecodeClassAttendanceAccount(in.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *out != in {
		t.Fatalf("round trip beda: %+v vs %+v", out, in)
	}
}
