package cart

import (
	"fmt"
	"strings"

	"mataam/internal/model"
)

// User-facing messages. The app ships Arabic-only; presentation (toast or
// dialog) is the notifier's concern.
const (
	msgGenericError   = "حدث خطأ، يرجى المحاولة مرة أخرى"
	msgCartEmpty      = "السلة فارغة"
	msgCartMissing    = "تعذر تحديد السلة، يرجى إعادة تحميل الصفحة"
	msgSelectBranch   = "يرجى اختيار الفرع أولاً"
	msgAddAddress     = "يجب إضافة عنوان للتوصيل أولاً"
	msgSelectAddress  = "يرجى اختيار عنوان التوصيل"
	msgSelectArea     = "يرجى اختيار منطقة التوصيل"
	msgOrderPlaced    = "تم إرسال طلبك بنجاح"
	msgConfirmRemove  = "هل تريد حذف هذا الصنف من السلة؟"
	msgNoteTooLong    = "الملاحظة طويلة جداً (الحد الأقصى 500 حرف)"
	msgMissingOptions = "يرجى الاختيار من: %s"
)

// serverMessages maps the order endpoint's validation codes to Arabic. An
// unmapped code falls through to the server's raw description.
var serverMessages = map[string]string{
	model.ErrCodeMissingPhoneOrAddress: "يرجى إضافة رقم هاتف أو عنوان افتراضي لإتمام الطلب",
	model.ErrCodeUserInactive:          "حسابك غير مفعل، يرجى التواصل مع الإدارة",
	model.ErrCodeBranchClosed:          "الفرع مغلق حالياً",
	model.ErrCodeBranchInactive:        "الفرع غير متاح حالياً",
	model.ErrCodeBranchOutOfHours:      "الفرع خارج أوقات الدوام",
	model.ErrCodeDeliveryFeeInactive:   "منطقة التوصيل غير متاحة حالياً",
	model.ErrCodeDeliveryFeeNotFound:   "تعذر إيجاد رسوم التوصيل",
	model.ErrCodeCartItemsUnavailable:  "بعض الأصناف لم تعد متوفرة",
}

// LocalizeError renders a server validation envelope for the user.
func LocalizeError(apiErr *model.APIError) string {
	parts := make([]string, 0, len(apiErr.Errors))
	for _, fe := range apiErr.Errors {
		msg, ok := serverMessages[fe.Code]
		if !ok {
			msg = fe.Description
		}
		// The unavailable-items code enumerates the affected item ids in
		// its description.
		if fe.Code == model.ErrCodeCartItemsUnavailable && fe.Description != "" {
			msg = fmt.Sprintf("%s (%s)", msg, fe.Description)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return msgGenericError
	}
	return strings.Join(parts, "؛ ")
}

func missingOptionsMessage(titles []string) string {
	return fmt.Sprintf(msgMissingOptions, strings.Join(titles, "، "))
}
