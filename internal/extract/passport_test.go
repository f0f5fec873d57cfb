package extract

import "testing"

func TestPassportLabels(t *testing.T) {
	text := "PASSPORT\nSurname: DOE\nGiven Names: JANE MARY\nNationality: GBR\nDate of Expiry: 01/02/2030\n"
	got := Passport(text)
	if deref(got.Surname) != "DOE" {
		t.Errorf("Surname = %s", deref(got.Surname))
	}
	if deref(got.GivenNames) != "JANE MARY" {
		t.Errorf("GivenNames = %s", deref(got.GivenNames))
	}
	if deref(got.Nationality) != "GBR" {
		t.Errorf("Nationality = %s", deref(got.Nationality))
	}
	if deref(got.DateOfExpiry) != "2030-02-01" {
		t.Errorf("DateOfExpiry = %s", deref(got.DateOfExpiry))
	}
}

func TestPassportFreeTextNationalityNextLine(t *testing.T) {
	text := "Surname\nBen Ali\nNationality: Libyan\nExpiry Date\n15 MAR 2031"
	got := Passport(text)
	if deref(got.Surname) != "Ben Ali" {
		t.Errorf("Surname = %s", deref(got.Surname))
	}
	if deref(got.Nationality) != "Libyan" {
		t.Errorf("Nationality = %s", deref(got.Nationality))
	}
	if deref(got.DateOfExpiry) != "2031-03-15" {
		t.Errorf("DateOfExpiry = %s", deref(got.DateOfExpiry))
	}
}

func TestPassportMRZFallback(t *testing.T) {
	text := "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<\nL898902C36UTO7408122F1204159ZE184226B<<<<<10\n"
	got := Passport(text)
	if deref(got.Surname) != "ERIKSSON" {
		t.Errorf("Surname = %s", deref(got.Surname))
	}
	if deref(got.GivenNames) != "ANNA MARIA" {
		t.Errorf("GivenNames = %s", deref(got.GivenNames))
	}
	if deref(got.Nationality) != "UTO" {
		t.Errorf("Nationality = %s", deref(got.Nationality))
	}
	if deref(got.DateOfExpiry) != "2012-04-15" {
		t.Errorf("DateOfExpiry = %s", deref(got.DateOfExpiry))
	}
}

func TestPassportLabelsWinOverMRZ(t *testing.T) {
	text := "Surname: SMITH\nP<UTOERIKSSON<<ANNA<<<<<<<<<<<<<<<<<<<<<<<<<<<\n"
	got := Passport(text)
	if deref(got.Surname) != "SMITH" {
		t.Errorf("Surname = %s", deref(got.Surname))
	}
	if deref(got.GivenNames) != "ANNA" {
		t.Errorf("GivenNames = %s", deref(got.GivenNames))
	}
}

func TestPassportEmpty(t *testing.T) {
	got := Passport("")
	if got.Surname != nil || got.GivenNames != nil || got.Nationality != nil || got.DateOfExpiry != nil {
		t.Fatalf("expected all fields absent, got %+v", got)
	}
}
