package apperror

// BilingualMessage is the client-facing message pair rendered in API
// responses.
type BilingualMessage struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

var catalog = map[Code]BilingualMessage{
	CodeServiceNotFound: {
		AR: "الخدمة غير موجودة",
		EN: "Service not found",
	},
	CodeClinicNotFound: {
		AR: "العيادة غير موجودة",
		EN: "Clinic not found",
	},
	CodeTargetClinicInvalid: {
		AR: "العيادة المستهدفة غير موجودة أو غير نشطة",
		EN: "Target clinic not found or inactive",
	},
	CodeAppointmentNotFound: {
		AR: "الموعد غير موجود",
		EN: "Appointment not found",
	},
	CodeUserNotFound: {
		AR: "المستخدم غير موجود",
		EN: "User not found",
	},
	CodeValidationFailed: {
		AR: "فشل التحقق من صحة البيانات",
		EN: "Request validation failed",
	},
	CodeServiceHasNoSessions: {
		AR: "لا تحتوي الخدمة على جلسات",
		EN: "Service has no sessions defined",
	},
	CodeInvalidSessionID: {
		AR: "معرف الجلسة غير صالح لهذه الخدمة",
		EN: "Session does not belong to this service",
	},
	CodeMaxSessionsExceeded: {
		AR: "تم تجاوز الحد الأقصى لعدد الجلسات (50)",
		EN: "Maximum number of sessions (50) exceeded",
	},
	CodeDuplicateSessionOrder: {
		AR: "ترتيب الجلسة مكرر",
		EN: "Duplicate session order",
	},
	CodeInvalidSessionOrder: {
		AR: "ترتيب الجلسة يجب أن يكون رقمًا موجبًا",
		EN: "Session order must be a positive integer",
	},
	CodeEmptySessionName: {
		AR: "اسم الجلسة لا يمكن أن يكون فارغًا",
		EN: "Session name cannot be empty",
	},
	CodeInvalidSessionDuration: {
		AR: "مدة الجلسة يجب أن تكون بين 5 و 480 دقيقة",
		EN: "Session duration must be between 5 and 480 minutes",
	},
	CodeInvalidClinicStatus: {
		AR: "حالة العيادة غير صالحة",
		EN: "Invalid clinic status",
	},
	CodeInvalidCredentials: {
		AR: "بيانات الاعتماد غير صحيحة",
		EN: "Invalid credentials",
	},
	CodeDuplicateSessionBooking: {
		AR: "يوجد حجز نشط لهذه الجلسة بالفعل",
		EN: "An active booking already exists for this session",
	},
	CodeCompletedSessionRebooking: {
		AR: "لا يمكن إعادة حجز جلسة مكتملة",
		EN: "Cannot rebook a completed session",
	},
	CodeBatchBookingFailed: {
		AR: "فشل حجز الجلسات، لم يتم حجز أي جلسة",
		EN: "Batch booking failed, no sessions were booked",
	},
	CodeSessionHasActiveBookings: {
		AR: "لا يمكن حذف جلسة لها مواعيد نشطة",
		EN: "Cannot remove a session with active appointments",
	},
	CodeServiceHasActiveBookings: {
		AR: "لا يمكن حذف خدمة لها مواعيد نشطة",
		EN: "Cannot delete a service with active appointments",
	},
	CodeClinicRequiresTransfer: {
		AR: "تعطيل العيادة يتطلب نقل الأطباء والموظفين والمواعيد",
		EN: "Deactivating this clinic requires transferring doctors, staff, and appointments",
	},
	CodeInvalidStatusTransition: {
		AR: "انتقال الحالة غير مسموح به",
		EN: "Status transition is not allowed",
	},
	CodeDuplicateActiveAppointment: {
		AR: "يوجد موعد نشط مطابق بالفعل",
		EN: "A matching active appointment already exists",
	},
}

var unknownMessage = BilingualMessage{
	AR: "حدث خطأ غير متوقع",
	EN: "An unexpected error occurred",
}

// Message resolves the bilingual message for a code. Unknown codes get a
// generic message rather than leaking internals.
func Message(code Code) BilingualMessage {
	if m, ok := catalog[code]; ok {
		return m
	}
	return unknownMessage
}
