package api

// Localized is the four-locale message map every error and success body
// carries; the client picks the string for its active locale and falls back
// to English.
type Localized struct {
	EN string `json:"en"`
	FR string `json:"fr"`
	ES string `json:"es"`
	AR string `json:"ar"`
}

var (
	MsgInvalidRequest = Localized{
		EN: "Invalid request.",
		FR: "Requête invalide.",
		ES: "Solicitud no válida.",
		AR: "طلب غير صالح.",
	}
	MsgInvalidCredentials = Localized{
		EN: "Invalid email or password.",
		FR: "E-mail ou mot de passe invalide.",
		ES: "Correo o contraseña incorrectos.",
		AR: "البريد الإلكتروني أو كلمة المرور غير صحيحة.",
	}
	MsgEmailNotVerified = Localized{
		EN: "Please verify your email address before logging in.",
		FR: "Veuillez vérifier votre adresse e-mail avant de vous connecter.",
		ES: "Verifica tu correo electrónico antes de iniciar sesión.",
		AR: "يرجى التحقق من بريدك الإلكتروني قبل تسجيل الدخول.",
	}
	MsgCodeSent = Localized{
		EN: "A verification code has been sent to your email.",
		FR: "Un code de vérification a été envoyé à votre adresse e-mail.",
		ES: "Se ha enviado un código de verificación a tu correo.",
		AR: "تم إرسال رمز التحقق إلى بريدك الإلكتروني.",
	}
	MsgUserNotFound = Localized{
		EN: "User not found.",
		FR: "Utilisateur introuvable.",
		ES: "Usuario no encontrado.",
		AR: "المستخدم غير موجود.",
	}
	MsgNoChallengePending = Localized{
		EN: "No verification code is pending. Please log in again.",
		FR: "Aucun code de vérification en attente. Veuillez vous reconnecter.",
		ES: "No hay ningún código pendiente. Inicia sesión de nuevo.",
		AR: "لا يوجد رمز تحقق معلق. يرجى تسجيل الدخول مرة أخرى.",
	}
	MsgChallengeExpired = Localized{
		EN: "The verification code has expired. Please log in again.",
		FR: "Le code de vérification a expiré. Veuillez vous reconnecter.",
		ES: "El código de verificación ha caducado. Inicia sesión de nuevo.",
		AR: "انتهت صلاحية رمز التحقق. يرجى تسجيل الدخول مرة أخرى.",
	}
	MsgInvalidCode = Localized{
		EN: "Incorrect verification code.",
		FR: "Code de vérification incorrect.",
		ES: "Código de verificación incorrecto.",
		AR: "رمز التحقق غير صحيح.",
	}
	MsgLoginSuccess = Localized{
		EN: "Logged in successfully.",
		FR: "Connexion réussie.",
		ES: "Sesión iniciada correctamente.",
		AR: "تم تسجيل الدخول بنجاح.",
	}
	MsgUnauthorized = Localized{
		EN: "You must be logged in.",
		FR: "Vous devez être connecté.",
		ES: "Debes iniciar sesión.",
		AR: "يجب تسجيل الدخول.",
	}
	MsgForbidden = Localized{
		EN: "You are not allowed to do that.",
		FR: "Vous n'êtes pas autorisé à faire cela.",
		ES: "No tienes permiso para hacer eso.",
		AR: "لا يُسمح لك بفعل ذلك.",
	}
	MsgSessionNotFound = Localized{
		EN: "Session not found.",
		FR: "Session introuvable.",
		ES: "Sesión no encontrada.",
		AR: "الجلسة غير موجودة.",
	}
	MsgLoggedOut = Localized{
		EN: "Logged out.",
		FR: "Déconnecté.",
		ES: "Sesión cerrada.",
		AR: "تم تسجيل الخروج.",
	}
	MsgSessionRevoked = Localized{
		EN: "Session revoked.",
		FR: "Session révoquée.",
		ES: "Sesión revocada.",
		AR: "تم إلغاء الجلسة.",
	}
	MsgEmailRegistered = Localized{
		EN: "This email is already registered.",
		FR: "Cet e-mail est déjà enregistré.",
		ES: "Este correo ya está registrado.",
		AR: "هذا البريد الإلكتروني مسجل بالفعل.",
	}
	MsgVerificationSent = Localized{
		EN: "A verification link has been sent to your email.",
		FR: "Un lien de vérification a été envoyé à votre adresse e-mail.",
		ES: "Se ha enviado un enlace de verificación a tu correo.",
		AR: "تم إرسال رابط التحقق إلى بريدك الإلكتروني.",
	}
	MsgAlreadyVerified = Localized{
		EN: "This email is already verified.",
		FR: "Cet e-mail est déjà vérifié.",
		ES: "Este correo ya está verificado.",
		AR: "تم التحقق من هذا البريد الإلكتروني بالفعل.",
	}
	MsgInvalidVerifyToken = Localized{
		EN: "The verification link is invalid or has expired.",
		FR: "Le lien de vérification est invalide ou a expiré.",
		ES: "El enlace de verificación no es válido o ha caducado.",
		AR: "رابط التحقق غير صالح أو منتهي الصلاحية.",
	}
	MsgEmailVerified = Localized{
		EN: "Your email has been verified. You can now log in.",
		FR: "Votre e-mail a été vérifié. Vous pouvez maintenant vous connecter.",
		ES: "Tu correo ha sido verificado. Ya puedes iniciar sesión.",
		AR: "تم التحقق من بريدك الإلكتروني. يمكنك الآن تسجيل الدخول.",
	}
	MsgIncorrectPassword = Localized{
		EN: "Your current password is incorrect.",
		FR: "Votre mot de passe actuel est incorrect.",
		ES: "Tu contraseña actual es incorrecta.",
		AR: "كلمة المرور الحالية غير صحيحة.",
	}
	MsgPasswordChanged = Localized{
		EN: "Password changed.",
		FR: "Mot de passe modifié.",
		ES: "Contraseña cambiada.",
		AR: "تم تغيير كلمة المرور.",
	}
	MsgWordNotFound = Localized{
		EN: "Word not found.",
		FR: "Mot introuvable.",
		ES: "Palabra no encontrada.",
		AR: "الكلمة غير موجودة.",
	}
	MsgCategoryNotFound = Localized{
		EN: "Category not found.",
		FR: "Catégorie introuvable.",
		ES: "Categoría no encontrada.",
		AR: "الفئة غير موجودة.",
	}
	MsgInternalError = Localized{
		EN: "Something went wrong. Please try again later.",
		FR: "Une erreur s'est produite. Veuillez réessayer plus tard.",
		ES: "Algo salió mal. Inténtalo de nuevo más tarde.",
		AR: "حدث خطأ ما. يرجى المحاولة مرة أخرى لاحقًا.",
	}
	MsgNotFound = Localized{
		EN: "Not found.",
		FR: "Introuvable.",
		ES: "No encontrado.",
		AR: "غير موجود.",
	}
)
