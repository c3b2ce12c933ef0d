package validation

// Сообщения для пользователя
const (
	MsgRequired = "Обязательное поле."

	MsgEndBeforeStart    = "Конец приема должен быть позже начала приема"
	MsgStartInPast       = "Начало консультации не может быть в прошлом"
	MsgDoctorBusy        = "У врача уже назначена консультация в это время"
	MsgDoctorNotInStaff  = "Доктор не работает в этой клинике"
	MsgInvalidStatus     = "Недопустимый статус консультации"
	MsgInvalidTransition = "Статус консультации нельзя вернуть назад"
	MsgDoctorNotFound    = "Врач не найден"
	MsgPatientNotFound   = "Пациент не найден"
	MsgClinicNotFound    = "Клиника не найдена"

	MsgPhoneFormat = "Телефон должен быть в формате +7XXXXXXXXXX"
	MsgPhoneTaken  = "Пользователь с таким номером телефона уже существует"
	MsgEmailFormat = "Email должен быть в формате example@example.com"
	MsgEmailTaken  = "Пользователь с таким email уже существует"

	MsgBirthInFuture   = "Дата рождения не может быть в будущем"
	MsgBirthBefore1900 = "Дата рождения не может быть раньше 1900 года"

	MsgPasswordTooShort = "Пароль должен быть не менее 8 символов"
	MsgPasswordNoDigit  = "Пароль должен содержать хотя бы одну цифру"
	MsgPasswordNoUpper  = "Пароль должен содержать хотя бы одну заглавную букву"
	MsgPasswordNoLower  = "Пароль должен содержать хотя бы одну строчную букву"
	MsgPasswordTooLong  = "Пароль не должен превышать 72 байта"

	MsgWorkStartInFuture  = "Дата начала работы не может быть в будущем"
	MsgWorkEndBeforeStart = "Дата окончания работы не может быть раньше даты начала"

	MsgEducationEndBeforeStart = "Дата окончания обучения должна быть позже даты начала"

	MsgClinicNameEmpty        = "Название клиники не может быть пустым"
	MsgRegisteredAddressEmpty = "Юридический адрес клиники не может быть пустым"
	MsgActualAddressEmpty     = "Физический адрес клиники не может быть пустым"
)

// tagMessages сообщения для тегов go-playground/validator
var tagMessages = map[string]string{
	"required": MsgRequired,
	"max":      "Длина не должна превышать %s символов",
	"oneof":    "Допустимые значения: %s",
}
