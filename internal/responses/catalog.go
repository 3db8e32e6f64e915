package responses

import (
	"fmt"
	"strings"
)

// Kind identifies a user-facing message template.
type Kind string

const (
	Greeting             Kind = "greeting"
	Help                 Kind = "help"
	Generic              Kind = "generic_response"
	DataExtractionReq    Kind = "data_extraction_request"
	AskForEmail          Kind = "ask_for_email"
	AskForDate           Kind = "ask_for_date"
	DataExtracted        Kind = "data_extracted_success"
	LanguageChange       Kind = "language_change_spanish"
	AppointmentScheduled Kind = "appointment_scheduled"
	BookingError         Kind = "booking_error"
	TrialModeWarning     Kind = "trial_mode_warning"
	PastDateError        Kind = "past_date_error"
	SlotConflictRetry    Kind = "slot_conflict_retry"
	AllSlotsFull         Kind = "all_slots_full"
	AvailabilityError    Kind = "availability_error"
	InsufficientNotice   Kind = "insufficient_notice_error"
	TimeOutOfBounds      Kind = "time_out_of_bounds_error"
)

// lastResort is returned when even the fallback key is missing for a
// language. It should never be seen in practice.
const lastResort = "🤔 Sorry, something went wrong. Please try again."

// Params carries the template substitution values. Placeholders use the
// {name} form inherited from the catalog's template notation.
type Params map[string]string

// Get looks up the template for (kind, language), falling back to the
// generic response for the language, then to English, then to a hard-coded
// literal. Placeholders of the form {key} are replaced from params.
func Get(kind Kind, lang string, params Params) string {
	table, ok := catalog[lang]
	if !ok {
		table = catalog["en"]
	}

	tmpl, ok := table[kind]
	if !ok {
		tmpl, ok = table[Generic]
		if !ok {
			return lastResort
		}
	}

	return expand(tmpl, params)
}

func expand(tmpl string, params Params) string {
	if len(params) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, fmt.Sprintf("{%s}", k), v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var catalog = map[string]map[Kind]string{
	"es": {
		Greeting:             "¡Hola! 👋 Soy tu asistente de citas. ¿En qué puedo ayudarte hoy?",
		Help:                 "Puedo ayudarte con: agendar citas, responder preguntas, o proporcionar información sobre nuestros servicios. ¿Qué necesitas?",
		Generic:              "🤔 Lo siento, no entendí tu mensaje. ¿Podrías repetirlo de otra forma?",
		DataExtractionReq:    "📋 Para agendar tu cita necesito la siguiente información:\n\n• *👤 Nombre completo*\n• *📩 Correo electrónico*\n• *🕓 ¿Para cuándo quieres la cita?* (ej: mañana, lunes, 25 de noviembre)\n\n⚡ *Comencemos — ¿cuál es tu nombre completo?*",
		AskForEmail:          "Perfecto, {name}. Ahora necesito tu correo electrónico para completar la reserva.",
		AskForDate:           "Excelente, {name}. ¿Para cuándo te gustaría agendar tu cita? (ej: mañana, lunes, fecha específica)",
		DataExtracted:        "✅ ¡Perfecto! He extraído la siguiente información:\n\n• **Nombre:** {name}\n• **Email:** {email}\n• **Fecha:** {date}\n\nAhora procederé a agendar tu cita...",
		LanguageChange:       "¡Por supuesto! Con mucho gusto continuaré conversando contigo en español. ¿En qué puedo ayudarte?",
		AppointmentScheduled: "✅ ¡Tu cita ha sido programada exitosamente! Te llegará un email de confirmación.\n📍 **Enlace de la reunión:** {meeting_url}",
		BookingError:         "❌ Error reservando cita.",
		TrialModeWarning:     "⚠️ **Modo Trial de Twilio**: Solo puedo enviar mensajes a números verificados. Asegúrate de que tu número esté verificado en la consola de Twilio.",
		PastDateError:        "⚠️ La fecha/hora que elegiste ya pasó. Por favor elige una fecha/hora futura.",
		SlotConflictRetry:    "⚠️ El horario {original_time} ya fue tomado. Intentando con el siguiente disponible: {new_time}",
		AllSlotsFull:         "❌ Lamentablemente no hay slots disponibles en los próximos días. Por favor contacta manualmente.",
		AvailabilityError:    "⚠️ No hay disponibilidad para esa fecha. Por favor elige otro día/hora.",
		InsufficientNotice:   "⚠️ Necesitas agendar con al menos {minimum_hours} horas de anticipación. El horario {requested_time} no está disponible. Prueba con: {suggested_time} (es decir, {pretty_time})",
		TimeOutOfBounds:      "⚠️ El horario {requested_time} está fuera del horario laboral o ventana de reserva. Intentando con: {next_available}",
	},
	"en": {
		Greeting:             "Hello! 👋 I'm your booking assistant. How can I help you today?",
		Help:                 "I can help you with: booking appointments, answering questions, or providing information about our services. What do you need?",
		Generic:              "🤔 I'm sorry, I didn't understand your message. Could you please rephrase it?",
		DataExtractionReq:    "📋 To schedule your appointment I need the following information:\n\n• *👤 Full name*\n• *📩 Email address*\n• *🕓 When do you want the appointment?* (e.g.: tomorrow, Monday, November 25)\n\n⚡ *Let's start — What is your full name?*",
		AskForEmail:          "Perfect, {name}. Now I need your email address to complete the booking.",
		AskForDate:           "Excellent, {name}. When would you like to schedule your appointment? (e.g.: tomorrow, Monday, specific date)",
		DataExtracted:        "✅ Perfect! I have extracted the following information:\n\n• **Name:** {name}\n• **Email:** {email}\n• **Date:** {date}\n\nNow I will proceed to schedule your appointment...",
		LanguageChange:       "Of course! I'm pleased to continue conversing with you in Spanish. How can I help you?",
		AppointmentScheduled: "✅ Your appointment has been successfully scheduled! You will receive a confirmation email.\n📍 **Meeting link:** {meeting_url}",
		BookingError:         "❌ Error booking appointment.",
		TrialModeWarning:     "⚠️ **Twilio Trial Mode**: I can only send messages to verified numbers. Make sure your number is verified in the Twilio console.",
		PastDateError:        "⚠️ The date/time you chose has already passed. Please select a future date/time.",
		SlotConflictRetry:    "⚠️ The time slot {original_time} has already been taken. Trying the next available one: {new_time}",
		AllSlotsFull:         "❌ Unfortunately, there are no available slots in the next few days. Please reach out manually.",
		AvailabilityError:    "⚠️ There's no availability for that date. Please pick another day or time.",
		InsufficientNotice:   "⚠️ You need to book at least {minimum_hours} hours in advance. The time {requested_time} isn't available. Try this instead: {suggested_time} ({pretty_time})",
		TimeOutOfBounds:      "⚠️ The time {requested_time} is outside the booking window. Trying: {next_available}",
	},
	"fr": {
		Greeting:             "Bonjour! 👋 Je suis votre assistant de réservation. Comment puis-je vous aider aujourd'hui?",
		Help:                 "Je peux vous aider avec: réserver des rendez-vous, répondre aux questions, ou fournir des informations sur nos services. De quoi avez-vous besoin?",
		Generic:              "🤔 Je suis désolé, je n'ai pas compris votre message. Pourriez-vous le reformuler?",
		DataExtractionReq:    "📋 Pour planifier votre rendez-vous j'ai besoin des informations suivantes:\n\n• *👤 Nom complet*\n• *📩 Adresse e-mail*\n• *🕓 Quand voulez-vous le rendez-vous?* (ex: demain, lundi, 25 novembre)\n\n⚡ *Commençons — Quel est votre nom complet?*",
		AskForEmail:          "Parfait, {name}. Maintenant j'ai besoin de votre adresse e-mail pour compléter la réservation.",
		AskForDate:           "Excellent, {name}. Quand souhaitez-vous planifier votre rendez-vous? (ex: demain, lundi, date spécifique)",
		DataExtracted:        "✅ Parfait! J'ai extrait les informations suivantes:\n\n• **Nom:** {name}\n• **E-mail:** {email}\n• **Date:** {date}\n\nMaintenant je procéderai à planifier votre rendez-vous...",
		LanguageChange:       "Bien sûr! Avec plaisir, je continuerai à converser avec vous en espagnol. Comment puis-je vous aider?",
		AppointmentScheduled: "✅ Votre rendez-vous a été programmé avec succès! Vous recevrez un email de confirmation.\n📍 **Lien de la réunion:** {meeting_url}",
		BookingError:         "❌ Erreur lors de la réservation.",
		TrialModeWarning:     "⚠️ **Mode Trial Twilio**: Je ne peux envoyer des messages qu'aux numéros vérifiés. Assurez-vous que votre numéro est vérifié dans la console Twilio.",
		PastDateError:        "⚠️ La date/heure que vous avez choisie est déjà passée. Veuillez sélectionner une date/heure future.",
		SlotConflictRetry:    "⚠️ Le créneau horaire {original_time} est déjà pris. Tentative avec le prochain disponible : {new_time}",
		AllSlotsFull:         "❌ Malheureusement, aucun créneau n'est disponible ces prochains jours. Veuillez contacter manuellement.",
		AvailabilityError:    "⚠️ Aucune disponibilité pour cette date. Veuillez choisir un autre jour/heure.",
		InsufficientNotice:   "⚠️ Vous devez réserver au moins {minimum_hours} heures à l'avance. Le créneau {requested_time} n'est pas disponible. Essayez plutôt : {suggested_time} ({pretty_time})",
		TimeOutOfBounds:      "⚠️ Le créneau {requested_time} est en dehors de la période autorisée pour les réservations. Proposition : {next_available}",
	},
	"de": {
		Greeting:             "Hallo! 👋 Ich bin Ihr Buchungsassistent. Wie kann ich Ihnen heute helfen?",
		Help:                 "Ich kann Ihnen helfen mit: Terminbuchungen, Fragen beantworten, oder Informationen über unsere Dienstleistungen. Was brauchen Sie?",
		Generic:              "🤔 Tut mir leid, ich habe Ihre Nachricht nicht verstanden. Könnten Sie sie bitte anders formulieren?",
		DataExtractionReq:    "📋 Um Ihren Termin zu planen, benötige ich folgende Informationen:\n\n• *👤 Vollständiger Name*\n• *📩 E-Mail-Adresse*\n• *🕓 Wann möchten Sie den Termin?* (z.B.: morgen, Montag, 25. November)\n\n⚡ *Beginnen wir — Was ist Ihr vollständiger Name?*",
		AskForEmail:          "Perfekt, {name}. Jetzt brauche ich Ihre E-Mail-Adresse, um die Buchung abzuschließen.",
		AskForDate:           "Ausgezeichnet, {name}. Wann möchten Sie Ihren Termin planen? (z.B.: morgen, Montag, bestimmtes Datum)",
		DataExtracted:        "✅ Perfekt! Ich habe folgende Informationen extrahiert:\n\n• **Name:** {name}\n• **E-Mail:** {email}\n• **Datum:** {date}\n\nJetzt werde ich Ihren Termin planen...",
		LanguageChange:       "Natürlich! Mit Vergnügen werde ich weiterhin auf Spanisch mit Ihnen sprechen. Wie kann ich Ihnen helfen?",
		AppointmentScheduled: "✅ Ihr Termin wurde erfolgreich geplant! Sie erhalten eine Bestätigungs-E-Mail.\n📍 **Meeting-Link:** {meeting_url}",
		BookingError:         "❌ Fehler bei der Terminbuchung.",
		TrialModeWarning:     "⚠️ **Twilio-Trial-Modus**: Ich kann nur Nachrichten an verifizierte Nummern senden. Stellen Sie sicher, dass Ihre Nummer in der Twilio-Konsole verifiziert ist.",
		PastDateError:        "⚠️ Das von Ihnen gewählte Datum/die Uhrzeit ist bereits vergangen. Bitte wählen Sie ein zukünftiges Datum/eine zukünftige Uhrzeit.",
		SlotConflictRetry:    "⚠️ Der Zeitpunkt {original_time} ist bereits vergeben. Versuche mit dem nächsten verfügbaren: {new_time}",
		AllSlotsFull:         "❌ Leider sind in den nächsten Tagen keine Termine mehr verfügbar. Bitte kontaktieren Sie manuell.",
		AvailabilityError:    "⚠️ Für dieses Datum gibt es keine Verfügbarkeit. Bitte wählen Sie einen anderen Tag oder eine andere Uhrzeit.",
		InsufficientNotice:   "⚠️ Sie müssen mindestens {minimum_hours} Stunden im Voraus buchen. Der Termin {requested_time} ist nicht verfügbar. Versuchen Sie stattdessen: {suggested_time} ({pretty_time})",
		TimeOutOfBounds:      "⚠️ Der Termin {requested_time} liegt außerhalb des zulässigen Buchungsfensters. Vorschlag: {next_available}",
	},
	"it": {
		Greeting:             "Ciao! 👋 Sono il tuo assistente per le prenotazioni. Come posso aiutarti oggi?",
		Help:                 "Posso aiutarti con: prenotare appuntamenti, rispondere a domande, o fornire informazioni sui nostri servizi. Di cosa hai bisogno?",
		Generic:              "🤔 Mi dispiace, non ho capito il tuo messaggio. Potresti riformularlo?",
		DataExtractionReq:    "📋 Per programmare il tuo appuntamento ho bisogno delle seguenti informazioni:\n\n• *👤 Nome completo*\n• *📩 Indirizzo email*\n• *🕓 Quando vuoi l'appuntamento?* (es: domani, lunedì, 25 novembre)\n\n⚡ *Iniziamo — Qual è il tuo nome completo?*",
		AskForEmail:          "Perfetto, {name}. Ora ho bisogno del tuo indirizzo email per completare la prenotazione.",
		AskForDate:           "Eccellente, {name}. Quando vorresti programmare il tuo appuntamento? (es: domani, lunedì, data specifica)",
		DataExtracted:        "✅ Perfetto! Ho estratto le seguenti informazioni:\n\n• **Nome:** {name}\n• **Email:** {email}\n• **Data:** {date}\n\nOra procederò a programmare il tuo appuntamento...",
		LanguageChange:       "Certamente! Con piacere continuerò a conversare con te in spagnolo. Come posso aiutarti?",
		AppointmentScheduled: "✅ Il tuo appuntamento è stato programmato con successo! Riceverai un'email di conferma.\n📍 **Link dell'incontro:** {meeting_url}",
		BookingError:         "❌ Errore durante la prenotazione.",
		TrialModeWarning:     "⚠️ **Modalità di prova Twilio**: Posso inviare messaggi solo a numeri verificati. Assicurati che il tuo numero sia verificato nella console Twilio.",
		PastDateError:        "⚠️ La data/ora che hai scelto è già passata. Seleziona una data/ora futura.",
		SlotConflictRetry:    "⚠️ L'orario {original_time} è già occupato. Sto provando con il prossimo disponibile: {new_time}",
		AllSlotsFull:         "❌ Purtroppo non ci sono appuntamenti disponibili nei prossimi giorni. Si prega di contattare manualmente.",
		AvailabilityError:    "⚠️ Non ci sono disponibilità per questa data. Si prega di scegliere un altro giorno/orario.",
		InsufficientNotice:   "⚠️ È necessario prenotare con almeno {minimum_hours} ore di anticipo. L'orario {requested_time} non è disponibile. Prova con: {suggested_time} ({pretty_time})",
		TimeOutOfBounds:      "⚠️ L'orario {requested_time} è al di fuori della finestra di prenotazione. Sto provando con: {next_available}",
	},
	"pt": {
		Greeting:             "Olá! 👋 Sou seu assistente de agendamento. Como posso ajudá-lo hoje?",
		Help:                 "Posso ajudá-lo com: agendar consultas, responder perguntas, ou fornecer informações sobre nossos serviços. Do que você precisa?",
		Generic:              "🤔 Desculpe, não entendi sua mensagem. Você poderia reformulá-la?",
		DataExtractionReq:    "📋 Para agendar sua consulta preciso das seguintes informações:\n\n• *👤 Nome completo*\n• *📩 Endereço de email*\n• *🕓 Quando quer a consulta?* (ex: amanhã, segunda-feira, 25 de novembro)\n\n⚡ *Vamos começar — Qual é o seu nome completo?*",
		AskForEmail:          "Perfeito, {name}. Agora preciso do seu endereço de email para completar o agendamento.",
		AskForDate:           "Excelente, {name}. Quando gostaria de agendar sua consulta? (ex: amanhã, segunda-feira, data específica)",
		DataExtracted:        "✅ Perfeito! Extraí as seguintes informações:\n\n• **Nome:** {name}\n• **Email:** {email}\n• **Data:** {date}\n\nAgora vou proceder para agendar sua consulta...",
		LanguageChange:       "Claro! Com muito prazer continuarei conversando com você em espanhol. Como posso ajudá-lo?",
		AppointmentScheduled: "✅ Sua consulta foi marcada com sucesso! Você receberá um email de confirmação.\n📍 **Link da reunião:** {meeting_url}",
		BookingError:         "❌ Erro ao agendar consulta.",
		TrialModeWarning:     "⚠️ **Modo de teste Twilio**: Só posso enviar mensagens para números verificados. Certifique-se de que seu número esteja verificado no console Twilio.",
		PastDateError:        "⚠️ A data/hora que você escolheu já passou. Selecione uma data/hora futura.",
		SlotConflictRetry:    "⚠️ O horário {original_time} já foi reservado. Tentando com o próximo disponível: {new_time}",
		AllSlotsFull:         "❌ Infelizmente, não há horários disponíveis nos próximos dias. Por favor, entre em contato manualmente.",
		AvailabilityError:    "⚠️ Não há disponibilidade para essa data. Por favor, escolha outro dia/horário.",
		InsufficientNotice:   "⚠️ Você precisa agendar com pelo menos {minimum_hours} horas de antecedência. O horário {requested_time} não está disponível. Tente este: {suggested_time} ({pretty_time})",
		TimeOutOfBounds:      "⚠️ O horário {requested_time} está fora do período permitido para reservas. Tentando com: {next_available}",
	},
}
