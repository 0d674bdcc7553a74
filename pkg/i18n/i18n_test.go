package i18n

import (
	"errors"
	"testing"

	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
)

func TestResolveFallsBackToEnglish(t *testing.T) {
	en := Resolve(LangEn, KeyCartNotFound)
	ar := Resolve(LangAr, KeyCartNotFound)
	other := Resolve(Lang("fr"), KeyCartNotFound)

	if en.Title == "" || ar.Title == "" {
		t.Fatalf("catalog entry incomplete: en=%+v ar=%+v", en, ar)
	}
	if en == ar {
		t.Fatal("languages should differ")
	}
	if other != en {
		t.Fatal("unknown language must fall back to English")
	}
}

func TestResolveUnknownKeyUsesNetworkError(t *testing.T) {
	got := Resolve(LangEn, Key("no_such_key"))
	want := Resolve(LangEn, KeyNetworkError)
	if got != want {
		t.Fatalf("unknown key resolved to %+v", got)
	}
}

func TestFromErrorMapsCodes(t *testing.T) {
	cases := []struct {
		code pkgerrors.Code
		key  Key
	}{
		{pkgerrors.CodeNotFound, KeyCartNotFound},
		{pkgerrors.CodeValidation, KeyInvalidRequest},
		{pkgerrors.CodeUnauthorized, KeyUnauthorized},
		{pkgerrors.CodeStateConflict, KeyCartConflict},
		{pkgerrors.CodeDependency, KeyCartUpdateFailed},
	}
	for _, tc := range cases {
		msg := FromError(LangAr, pkgerrors.New(tc.code, ""))
		want := Resolve(LangAr, tc.key)
		if msg.Title != want.Title {
			t.Fatalf("code %s: title %q, want %q", tc.code, msg.Title, want.Title)
		}
	}
}

func TestFromErrorKeepsServerMessage(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	msg := FromError(LangEn, err)
	if msg.Message != "quantity must be positive" {
		t.Fatalf("server message lost: %+v", msg)
	}
	if msg.Title != Resolve(LangEn, KeyInvalidRequest).Title {
		t.Fatalf("title = %q", msg.Title)
	}
}

func TestFromErrorUntypedIsNetworkError(t *testing.T) {
	msg := FromError(LangEn, errors.New("dial tcp: refused"))
	if msg != Resolve(LangEn, KeyNetworkError) {
		t.Fatalf("untyped error mapped to %+v", msg)
	}
}
