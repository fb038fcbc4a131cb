package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// User-facing messages. The product is Thai-only.
const (
	MsgUnauthorized = "กรุณาเข้าสู่ระบบ"
	MsgNotFound     = "ไม่พบข้อมูล"
	MsgInternal     = "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง"
	MsgInvalidBody  = "ข้อมูลไม่ถูกต้อง"

	MsgEmailRegistered   = "อีเมลนี้ถูกใช้งานแล้ว"
	MsgInvalidCredential = "อีเมลหรือรหัสผ่านไม่ถูกต้อง"
	MsgRegisterFailed    = "เกิดข้อผิดพลาดในการสมัครสมาชิก กรุณาลองใหม่อีกครั้ง"

	// Authenticated generator
	MsgQuestionRequired = "กรุณาระบุคำถาม"
	MsgUserNotFound     = "ไม่พบข้อมูลผู้ใช้"
	MsgSettingsNotFound = "ไม่พบการตั้งค่า"
	MsgGenerateFailed   = "เกิดข้อผิดพลาดในการสร้างคำตอบ"

	// Public demo chat
	MsgDemoQuestionRequired = "กรุณาใส่คำถามค่ะ"
	MsgDemoRateLimited      = "กรุณารอสักครู่ก่อนส่งคำถามใหม่ค่ะ"
	MsgDemoFailed           = "เกิดข้อผิดพลาดในการตอบกลับค่ะ กรุณาลองใหม่อีกครั้งค่ะ"

	MsgTooManyRequests = "มีการเรียกใช้งานมากเกินไป กรุณาลองใหม่ภายหลัง"
)
