package dialog

// Подписи кнопок меню.
const (
	LabelRegister     = "Register"
	LabelAuthenticate = "Authenticate"
	LabelGenerateCode = "Generate code"
)

// MenuLabels порядок кнопок в клавиатуре.
var MenuLabels = []string{LabelRegister, LabelAuthenticate, LabelGenerateCode}

const (
	msgMenu          = "Hello! Choose an action:"
	msgSendStart     = "Send /start to begin."
	msgGenericFail   = "Something went wrong. Please try again."
	msgInputTooLarge = "Your message is too long. Please send a shorter one."

	msgAskGivenName  = "Enter your given name:"
	msgAskFamilyName = "Enter your family name:"
	msgAskPatronymic = "Enter your patronymic:"
	msgAskDocument   = "Enter your document number:"
	msgAskAuthDoc    = "Enter your document number to sign in:"

	msgBadGivenName  = "The given name must contain letters only. " + msgAskGivenName
	msgBadFamilyName = "The family name must contain letters only. " + msgAskFamilyName
	msgBadPatronymic = "The patronymic must contain letters only. " + msgAskPatronymic
	msgBadDocument   = "The document number must contain digits only. " + msgAskDocument
	msgDocumentTaken = "This document number is already used by another user. Enter a different document number:"

	msgAlreadyRegistered = "You are already registered. Use \"" + LabelGenerateCode + "\" to get your QR code."
	msgRegistered        = "Registration complete! You can now generate your QR code."
	msgRegisterFirst     = "Please register first!"
	msgUserNotFound      = "User not found. Try again."

	captionCode = "Your QR code:"
)

func authCaption(fullName, document string) string {
	return "Authentication successful!\n\n" + fullName + "\nDocument: " + document
}
