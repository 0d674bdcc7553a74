// Package i18n resolves user-facing failure messages into the bilingual
// title/message pairs the POS surfaces render. The catalog is closed: every
// reportable failure in the cart flow maps to one key.
package i18n

import (
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
)

type Lang string

const (
	LangEn Lang = "en"
	LangAr Lang = "ar"
)

// Message is the localized {title, message} pair stored in the client's error
// slot and shown as a toast/banner.
type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Key string

const (
	KeyNetworkError     Key = "network_error"
	KeyCartNotFound     Key = "cart_not_found"
	KeyCartCreateFailed Key = "cart_create_failed"
	KeyCartLoadFailed   Key = "cart_load_failed"
	KeyCartUpdateFailed Key = "cart_update_failed"
	KeyCartConflict     Key = "cart_conflict"
	KeyUnauthorized     Key = "unauthorized"
	KeyInvalidRequest   Key = "invalid_request"
)

type entry struct {
	en Message
	ar Message
}

var catalog = map[Key]entry{
	KeyNetworkError: {
		en: Message{Title: "Connection Error", Message: "Could not reach the server. Please try again."},
		ar: Message{Title: "خطأ في الاتصال", Message: "تعذر الوصول إلى الخادم. حاول مرة أخرى."},
	},
	KeyCartNotFound: {
		en: Message{Title: "Cart Not Found", Message: "This cart no longer exists."},
		ar: Message{Title: "السلة غير موجودة", Message: "هذه السلة لم تعد موجودة."},
	},
	KeyCartCreateFailed: {
		en: Message{Title: "Create Failed", Message: "Could not open a new cart."},
		ar: Message{Title: "فشل الإنشاء", Message: "تعذر فتح سلة جديدة."},
	},
	KeyCartLoadFailed: {
		en: Message{Title: "Load Failed", Message: "Could not load the cart."},
		ar: Message{Title: "فشل التحميل", Message: "تعذر تحميل السلة."},
	},
	KeyCartUpdateFailed: {
		en: Message{Title: "Update Failed", Message: "Could not update the cart."},
		ar: Message{Title: "فشل التحديث", Message: "تعذر تحديث السلة."},
	},
	KeyCartConflict: {
		en: Message{Title: "Cart Changed", Message: "The cart changed on the server. Refresh and retry."},
		ar: Message{Title: "تغيرت السلة", Message: "تغيرت السلة على الخادم. حدّث وأعد المحاولة."},
	},
	KeyUnauthorized: {
		en: Message{Title: "Not Authorized", Message: "Your session is not authorized for this action."},
		ar: Message{Title: "غير مصرح", Message: "جلستك غير مصرح لها بهذا الإجراء."},
	},
	KeyInvalidRequest: {
		en: Message{Title: "Invalid Request", Message: "The request was rejected by the server."},
		ar: Message{Title: "طلب غير صالح", Message: "رفض الخادم هذا الطلب."},
	},
}

// Resolve returns the catalog entry for key in the requested language,
// falling back to English for unknown languages.
func Resolve(lang Lang, key Key) Message {
	e, ok := catalog[key]
	if !ok {
		e = catalog[KeyNetworkError]
	}
	if lang == LangAr {
		return e.ar
	}
	return e.en
}

// FromError maps a typed cart error to a localized message. A server-provided
// message overrides the catalog body so specific failures stay actionable.
func FromError(lang Lang, err error) Message {
	key := KeyNetworkError
	serverMessage := ""
	if typed := pkgerrors.As(err); typed != nil {
		serverMessage = typed.Message()
		switch typed.Code() {
		case pkgerrors.CodeNotFound:
			key = KeyCartNotFound
		case pkgerrors.CodeValidation:
			key = KeyInvalidRequest
		case pkgerrors.CodeUnauthorized:
			key = KeyUnauthorized
		case pkgerrors.CodeConflict, pkgerrors.CodeStateConflict:
			key = KeyCartConflict
		default:
			key = KeyCartUpdateFailed
		}
	}
	msg := Resolve(lang, key)
	if serverMessage != "" {
		msg.Message = serverMessage
	}
	return msg
}
