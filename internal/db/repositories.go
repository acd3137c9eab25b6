package db

import "gorm.io/gorm"

type Repositories struct {
	Profiles          *ProfileRepository
	PushSubscriptions *PushSubscriptionRepository
	Catalog           *CatalogRepository
	Templates         *TemplateRepository
	UserQuestions     *UserQuestionRepository
	Answers           *AnswerRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Profiles:          NewProfileRepository(database),
		PushSubscriptions: NewPushSubscriptionRepository(database),
		Catalog:           NewCatalogRepository(database),
		Templates:         NewTemplateRepository(database),
		UserQuestions:     NewUserQuestionRepository(database),
		Answers:           NewAnswerRepository(database),
	}
}
