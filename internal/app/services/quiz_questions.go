package services

import "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"

// Course categories the quiz recommends. They match the seeded catalogue.
const (
	CategoryWeb      = "Web Development"
	CategoryData     = "Data Science"
	CategoryMobile   = "Mobile Development"
	CategoryCloud    = "Cloud & DevOps"
	CategorySecurity = "Cybersecurity"
	CategoryDesign   = "UI/UX Design"
)

// QuizQuestions is the career-interest question bank
var QuizQuestions = []models.QuizQuestion{
	{
		ID:   "q1",
		Text: "Which task sounds most fun on a free afternoon?",
		Options: []models.QuizOption{
			{ID: "a", Text: "Building a website for a friend", Categories: []string{CategoryWeb}},
			{ID: "b", Text: "Finding patterns in a spreadsheet", Categories: []string{CategoryData}},
			{ID: "c", Text: "Making an app for my phone", Categories: []string{CategoryMobile}},
			{ID: "d", Text: "Sketching how an app should look", Categories: []string{CategoryDesign}},
		},
	},
	{
		ID:   "q2",
		Text: "What kind of problem do you enjoy solving?",
		Options: []models.QuizOption{
			{ID: "a", Text: "Keeping systems running under load", Categories: []string{CategoryCloud}},
			{ID: "b", Text: "Spotting how something could be broken into", Categories: []string{CategorySecurity}},
			{ID: "c", Text: "Predicting what happens next from data", Categories: []string{CategoryData}},
			{ID: "d", Text: "Making something easier to use", Categories: []string{CategoryDesign, CategoryWeb}},
		},
	},
	{
		ID:   "q3",
		Text: "Which tool would you like to master?",
		Options: []models.QuizOption{
			{ID: "a", Text: "React or Vue", Categories: []string{CategoryWeb}},
			{ID: "b", Text: "Python notebooks", Categories: []string{CategoryData}},
			{ID: "c", Text: "Kubernetes and Terraform", Categories: []string{CategoryCloud}},
			{ID: "d", Text: "Flutter or Swift", Categories: []string{CategoryMobile}},
		},
	},
	{
		ID:   "q4",
		Text: "Where would you like to work in five years?",
		Options: []models.QuizOption{
			{ID: "a", Text: "A product startup shipping features weekly", Categories: []string{CategoryWeb, CategoryMobile}},
			{ID: "b", Text: "A research or analytics team", Categories: []string{CategoryData}},
			{ID: "c", Text: "A platform or infrastructure team", Categories: []string{CategoryCloud}},
			{ID: "d", Text: "A security operations center", Categories: []string{CategorySecurity}},
		},
	},
	{
		ID:   "q5",
		Text: "What do people usually ask you for help with?",
		Options: []models.QuizOption{
			{ID: "a", Text: "Making slides and posters look good", Categories: []string{CategoryDesign}},
			{ID: "b", Text: "Fixing their Wi-Fi or laptop", Categories: []string{CategoryCloud, CategorySecurity}},
			{ID: "c", Text: "Doing the maths", Categories: []string{CategoryData}},
			{ID: "d", Text: "Setting up their phone", Categories: []string{CategoryMobile}},
		},
	},
}
