package questionbank

var spanishSeed = Bank{
	TierBeginner: {
		{ID: "es-b1", Text: `Which one means "coffee" in Spanish?`, Options: []string{"café", "agua", "pan"}, CorrectAnswer: "café", Context: "coffee"},
		{ID: "es-b2", Text: `Which one means "dog" in Spanish?`, Options: []string{"gato", "perro", "pájaro"}, CorrectAnswer: "perro", Context: "dog"},
		{ID: "es-b3", Text: `Which one means "apple" in Spanish?`, Options: []string{"plátano", "manzana", "uva"}, CorrectAnswer: "manzana", Context: "apple"},
		{ID: "es-b4", Text: `Which one means "house" in Spanish?`, Options: []string{"casa", "carro", "libro"}, CorrectAnswer: "casa", Context: "house"},
		{ID: "es-b5", Text: `Which one means "water" in Spanish?`, Options: []string{"agua", "leche", "jugo"}, CorrectAnswer: "agua", Context: "water"},
		{ID: "es-b6", Text: "Translate into English: Buenos días.", Options: []string{"Good night", "Good morning", "Goodbye"}, CorrectAnswer: "Good morning"},
	},
	TierIntermediate: {
		{ID: "es-i1", Text: "Yo ................ estudiante.", Options: []string{"soy", "estoy", "es"}, CorrectAnswer: "soy", Context: "ser vs estar"},
		{ID: "es-i2", Text: "Nosotros ................ al cine mañana.", Options: []string{"vamos", "van", "va"}, CorrectAnswer: "vamos"},
		{ID: "es-i3", Text: "Choose the correct article for 'agua':", Options: []string{"el", "la", "los"}, CorrectAnswer: "el"},
		{
			ID:            "es-i4",
			Text:          "Translate: Me gustaría un café, por favor.",
			Options:       []string{"I like coffee, please.", "I would like a coffee, please.", "I am making a coffee, please."},
			CorrectAnswer: "I would like a coffee, please.",
		},
		{
			ID:            "es-i5",
			Text:          "Which sentence is correct?",
			Options:       []string{"Ella tiene un gato negro.", "Ella tienes un gato negro.", "Ella tiene una gato negro."},
			CorrectAnswer: "Ella tiene un gato negro.",
		},
	},
	TierHard: {
		{
			ID:            "es-h1",
			Text:          "She is taller than her brother.",
			Options:       []string{"Ella es más alta que su hermano.", "Ella es menos alta que su hermano.", "Ella es tan alta como su hermano."},
			CorrectAnswer: "Ella es más alta que su hermano.",
		},
		{
			ID:            "es-h2",
			Text:          "Si tuviera dinero, ................ un coche nuevo.",
			Options:       []string{"compro", "compraría", "compraré"},
			CorrectAnswer: "compraría",
			Context:       "Conditional",
		},
		{ID: "es-h3", Text: "What does 'echar de menos' mean?", Options: []string{"To throw away", "To miss someone", "To reduce"}, CorrectAnswer: "To miss someone"},
		{
			ID:            "es-h4",
			Text:          "Espero que tú ................ pronto.",
			Options:       []string{"vienes", "vengas", "vendrás"},
			CorrectAnswer: "vengas",
			Context:       "Present subjunctive",
		},
	},
}
