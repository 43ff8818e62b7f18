// Package apperr memisahkan error bisnis (validasi, izin, not-found) dari error
// infrastruktur supaya controller bisa memilih pesan yang aman untuk client.
package apperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota // input salah → pesan diteruskan apa adanya
	KindPermission             // role/ownership salah → pesan generik
	KindNotFound               // row tidak ada / sudah dihapus
	KindConflict               // duplikat atau state sudah terkunci
	KindInternal               // error infrastruktur → jangan bocorkan detail
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func Permission(msg string) error { return &Error{Kind: KindPermission, Msg: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error   { return &Error{Kind: KindConflict, Msg: msg} }

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf mengembalikan kind dari error; error non-apperr dianggap internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message mengembalikan pesan yang aman untuk client.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Msg
	}
	return "Terjadi kesalahan pada server"
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }
