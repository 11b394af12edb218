package i18n

// Message keys. "{0}" is replaced with the field name where present.
const (
	MsgRateLimited       = "msg.rate_limited"
	MsgParseError        = "msg.parse_error"
	MsgDomainCheckFailed = "msg.domain_check_failed"
	MsgValidationFailed  = "msg.validation_failed"
	MsgInternalError     = "msg.internal_error"
)

var messages = map[string]map[string]string{
	English: {
		MsgRateLimited:       "Too many requests, please try again later",
		MsgParseError:        "Request body could not be parsed",
		MsgDomainCheckFailed: "Request content was rejected",
		MsgValidationFailed:  "Request validation failed",
		MsgInternalError:     "Internal server error",

		"issue.invalid_type":              "{0} has the wrong type",
		"issue.required":                  "{0} is required",
		"issue.too_short":                 "{0} is too short",
		"issue.too_long":                  "{0} is too long",
		"issue.too_small":                 "{0} is too small",
		"issue.too_big":                   "{0} is too big",
		"issue.invalid_email":             "{0} must be a valid email address",
		"issue.invalid_enum":              "{0} is not one of the allowed values",
		"issue.invalid_uuid":              "{0} must be a valid identifier",
		"issue.invalid_url":               "{0} must be a valid URL",
		"issue.invalid_date":              "{0} is not a valid date",
		"issue.invalid_phone":             "Invalid phone number format",
		"issue.weak_password":             "Password is too weak",
		"issue.file_too_large":            "File too large",
		"issue.invalid_format":            "{0} is invalid",
		"issue.password_mismatch":         "Passwords must match",
		"issue.invalid_age":               "Age must be between 16 and 120",
		"issue.start_in_past":             "Event must be in the future",
		"issue.end_before_start":          "End time must be after start time",
		"issue.invalid_age_range":         "Minimum age must be less than or equal to maximum age",
		"issue.portuguese_title_required": "Portuguese title required for cultural celebrations",
		"issue.invalid_characters":        "{0} contains characters that are not allowed",
		"issue.consent_required":          "{0} requires consent to be given",
		"issue.invalid_postcode":          "Invalid UK postcode",
		"issue.sensitive_content":         "{0} contains content that is not allowed",
		"tag.accepted":                    "{0} must be accepted",
		"tag.ptname":                      "{0} contains invalid characters for a name",
		"tag.pttext":                      "{0} contains invalid characters",
		"tag.ptaddress":                   "{0} is not a valid address",
		"tag.ptkeyword":                   "{0} is not a valid keyword",
		"tag.businessname":                "{0} contains invalid characters for a business name",
		"tag.ukpostcode":                  "Invalid UK postcode",
		"tag.intlphone":                   "Invalid phone number format",
		"tag.nif":                         "{0} must be a 9-digit NIF",
		"tag.ukni":                        "{0} must be a UK National Insurance number",
		"tag.ptpassword":                  "Password must have 8+ characters with upper and lower case letters, a number and a symbol, and no common words",
		"tag.filename":                    "File name contains invalid characters or a blocked extension",
		"tag.maxupload":                   "File too large",
		"tag.notfutureyear":               "{0} cannot be in the future",
	},
	Portuguese: {
		MsgRateLimited:       "Demasiados pedidos, tente novamente mais tarde",
		MsgParseError:        "Não foi possível ler o corpo do pedido",
		MsgDomainCheckFailed: "O conteúdo do pedido foi rejeitado",
		MsgValidationFailed:  "Falha na validação do pedido",
		MsgInternalError:     "Erro interno do servidor",

		"issue.invalid_type":              "{0} tem o tipo errado",
		"issue.required":                  "{0} é obrigatório",
		"issue.too_short":                 "{0} é demasiado curto",
		"issue.too_long":                  "{0} é demasiado longo",
		"issue.too_small":                 "{0} é demasiado pequeno",
		"issue.too_big":                   "{0} é demasiado grande",
		"issue.invalid_email":             "{0} deve ser um endereço de email válido",
		"issue.invalid_enum":              "{0} não é um dos valores permitidos",
		"issue.invalid_uuid":              "{0} deve ser um identificador válido",
		"issue.invalid_url":               "{0} deve ser um URL válido",
		"issue.invalid_date":              "{0} não é uma data válida",
		"issue.invalid_phone":             "Formato de número de telefone inválido",
		"issue.weak_password":             "Palavra-passe demasiado fraca",
		"issue.file_too_large":            "Ficheiro demasiado grande",
		"issue.invalid_format":            "{0} é inválido",
		"issue.password_mismatch":         "Palavras-passe devem coincidir",
		"issue.invalid_age":               "Idade deve estar entre 16 e 120 anos",
		"issue.start_in_past":             "Evento deve estar no futuro",
		"issue.end_before_start":          "Data de fim deve ser depois da data de início",
		"issue.invalid_age_range":         "Faixa etária inválida",
		"issue.portuguese_title_required": "Título em português obrigatório para celebrações culturais",
		"issue.invalid_characters":        "{0} contém caracteres não permitidos",
		"issue.consent_required":          "{0} exige consentimento",
		"issue.invalid_postcode":          "Código postal do Reino Unido inválido",
		"issue.sensitive_content":         "{0} contém conteúdo não permitido",
		"tag.accepted":                    "{0} deve ser aceite",
		"tag.ptname":                      "{0} contém caracteres inválidos para um nome",
		"tag.pttext":                      "{0} contém caracteres inválidos",
		"tag.ptaddress":                   "{0} não é uma morada válida",
		"tag.ptkeyword":                   "{0} não é uma palavra-chave válida",
		"tag.businessname":                "Caracteres inválidos no nome do negócio",
		"tag.ukpostcode":                  "Código postal do Reino Unido inválido",
		"tag.intlphone":                   "Formato de número de telefone inválido",
		"tag.nif":                         "{0} deve ser um NIF de 9 dígitos",
		"tag.ukni":                        "{0} deve ser um número de National Insurance do Reino Unido",
		"tag.ptpassword":                  "Palavra-passe deve ter pelo menos 8 caracteres, maiúsculas e minúsculas, um número e um símbolo, sem palavras comuns",
		"tag.filename":                    "Nome de ficheiro com caracteres inválidos ou extensão bloqueada",
		"tag.maxupload":                   "Ficheiro demasiado grande",
		"tag.notfutureyear":               "{0} não pode estar no futuro",
	},
}
