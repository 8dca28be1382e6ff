package seed

import "schoolrecords-server-go/models"

var (
	firstNames = []string{
		"Leon", "Mia", "Noah", "Emma", "Paul", "Hannah", "Luca", "Sofia", "Elias", "Anna", "Ben", "Lea",
		"Luis", "Marie", "Jonas", "Lena", "Felix", "Emily", "Maximilian", "Lina", "Mohammed", "Aisha", "Kevin", "Chantal",
	}
	lastNames = []string{
		"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker", "Schulz", "Hoffmann", "Koch",
		"Bauer", "Richter", "Klein", "Wolf", "Schröder", "Neumann", "Schwarz", "Zimmermann", "Yilmaz", "Kowalski",
	}
	locations = []string{
		"Klassenzimmer 8b", "Pausenhof West", "Mensa", "Flur 1. Stock", "Sporthalle",
		"Chemie-Raum", "Bushaltestelle", "Digital / Teams", "Sekretariat", "Treppenhaus",
	}
	teachers = []string{
		"Frau Müller", "Herr Schmidt", "Frau Weber", "Herr Meyer", "Frau Wagner",
		"Herr Becker", "Frau Schulz", "Herr Hoffmann", "Frau Koch",
	}
	socialServices       = []string{"Hr. S.", "Fr. K.", "ReBUZ"}
	conversationLocation = []string{"Besprechungsraum", "Lehrerzimmer", "Telefon", "Büro SL"}
)

type incidentScenario struct {
	category    models.IncidentCategory
	description string
	action      string
}

var incidentScenarios = []incidentScenario{
	{models.CategoryDisruption, "Hat während der Stillarbeit laut 'Skibidi Toilet' gesungen.", "Ermahnung, Eintrag im Klassenbuch."},
	{models.CategoryTheft, "Hat das Pausenbrot von Lukas entwendet und gegen Pokemon-Karten getauscht.", "Elterngespräch, Rückgabe gefordert."},
	{models.CategoryVandalism, "Hat 'Ferien jetzt!' mit Edding an die Tafel geschrieben (permanent).", "Reinigung durch Schüler angeordnet."},
	{models.CategoryPhysical, "Schubsen in der Mensa-Schlange, weil es Pommes gab.", "Trennungsgespräch, Entschuldigung."},
	{models.CategoryDisruption, "Weigerte sich, die Sonnenbrille im Unterricht abzunehmen ('Augenentzündung').", "Zum Sekretariat geschickt."},
	{models.CategoryBullying, "Hat Gerüchte über WhatsApp in der Klassengruppe verbreitet.", "Handy einkassiert, Schulleitung informiert."},
	{models.CategoryOther, "Hat versucht, den Schulhamster 'frei zu lassen'.", "Eltern informiert, Hamster gesichert."},
	{models.CategoryVerbal, "Beleidigung der Lehrkraft als 'Boomer'.", "Reflexionsbogen ausfüllen lassen."},
	{models.CategoryDisruption, "Hat den Feueralarm 'aus Versehen' mit dem Ellbogen berührt.", "Gespräch mit Hausmeister und SL."},
	{models.CategoryTheft, "Diebstahl von Kreidevorräten für private Straßenkunst.", "Sozialstunden: Tafeldienst für 2 Wochen."},
	{models.CategoryVandalism, "Kaugummi unter den Lehrertisch geklebt.", "Muss alle Tische im Raum kontrollieren."},
	{models.CategoryDisruption, "Hat sich im Schrank versteckt, um die Klasse zu erschrecken.", "Nachsitzen."},
	{models.CategoryOther, "Betrieb einen illegalen Handel mit Energy-Drinks aus dem Spind.", "Handel unterbunden, Ware konfisziert."},
	{models.CategoryPhysical, "Schneeballschlacht im Treppenhaus.", "Pausenverbot für 2 Tage."},
	{models.CategoryVerbal, "Lautstarker Streit über Fußballergebnisse während der Klausur.", "Klausur abgenommen, Note 6."},
	{models.CategoryDisruption, "Hat die Sprache des Smartboards auf Chinesisch gestellt.", "Technischer Support gerufen, Schüler half bei Korrektur."},
	{models.CategoryBullying, "Ausschließen von Mitschülern beim Völkerball.", "Gespräch in der Klasse über Fairness."},
	{models.CategoryVandalism, "Hat versucht, ein TikTok-Video auf dem Lehrerpult zu drehen, Tisch verkratzt.", "Schadensmeldung an Stadt, Rechnung an Eltern."},
	{models.CategoryOther, "Hat Hausaufgaben durch ChatGPT erstellen lassen und den Prompt mit ausgedruckt.", "Hausaufgabe wiederholen (handschriftlich)."},
	{models.CategoryDisruption, "Simulierte Ohnmacht, um dem Vokabeltest zu entgehen.", "Sanitäter gerufen, Eltern informiert."},
}

type conversationTopic struct {
	kind    models.ConversationType
	subject string
	content string
	result  string
}

var conversationTopics = []conversationTopic{
	{models.ConversationParent, "Leistungsabfall Mathe", "Eltern machen sich Sorgen um die Note.", "Förderunterricht empfohlen."},
	{models.ConversationStudent, "Fehlzeiten", "Schüler fehlt häufig montags. Gespräch über Motivation.", "Attestpflicht ab 1. Tag."},
	{models.ConversationPhone, "Krankmeldung / Vorfall gestern", "Mutter rief an wegen Vorfall auf dem Schulhof.", "Rückruf durch Klassenlehrer vereinbart."},
	{models.ConversationRoundTable, "Hilfeplangespräch", "Große Runde mit ReBUZ und Sozialarbeiter.", "Maßnahme wird verlängert."},
	{models.ConversationConference, "Ordnungsmaßnahme", "Anhörung wegen wiederholtem Fehlverhalten.", "Schriftlicher Verweis."},
	{models.ConversationParent, "Lobanruf", "Rückmeldung über positive Entwicklung im Sozialverhalten.", "Eltern haben sich sehr gefreut."},
	{models.ConversationStudent, "Streitschlichtung", "Konflikt mit Mitschüler aus der 7a.", "Handshake und Entschuldigung."},
	{models.ConversationOther, "Austausch mit Schulbegleitung", "Abstimmung der Ziele für die Woche.", "Fokus auf Pünktlichkeit."},
	{models.ConversationParent, "Klassenfahrt Kosten", "Klärung der Finanzierung über Jobcenter.", "Antrag ausgehändigt."},
	{models.ConversationStudent, "Berufsorientierung", "Schüler weiß nicht, wohin nach der 10.", "Termin bei Berufsberatung gemacht."},
}

type meetingTopic struct {
	occasion  string
	detail    string
	chair     string
	taker     string
	attendees string
}

var meetingTopics = []meetingTopic{
	{models.OccasionOther, "Dienstbesprechung", "Herr Schmidt", "Frau Müller", "Gesamtes Kollegium"},
	{models.OccasionSubjectBoard, "Mathe", "Frau Weber", "Herr Becker", "Mathe-Lehrkräfte"},
	{models.OccasionOther, "Klassenkonferenz 8b", "Herr Meyer", "Frau Schulz", "Klassenlehrer, Fachlehrer 8b"},
	{models.OccasionTeam, "Steuergruppe", "Frau Wagner", "Herr Hoffmann", "Mitglieder der Steuergruppe"},
	{models.OccasionUP, "", "Herr Schmidt", "Frau Koch", "Schulleitung, Elternvertreter, Schülervertreter"},
}

var agendaTemplate = []models.AgendaItem{
	{Number: "1", Title: "Begrüßung und Formalia", Summary: "Feststellung der Beschlussfähigkeit. Genehmigung des letzten Protokolls."},
	{Number: "2", Title: "Aktuelle Themen", Summary: "Diskussion über aktuelle Herausforderungen im Schulalltag. <b>Wichtig:</b> Handyverbot in den Pausen konsequenter durchsetzen."},
	{Number: "3", Title: "Verschiedenes", Summary: "Nächster Termin in 4 Wochen."},
}
