package model

// Scope определяет видимость мягко удалённых записей в запросах
type Scope int

const (
	// ScopeActive только записи с is_deleted = false (по умолчанию)
	ScopeActive Scope = iota
	// ScopeAll все записи, включая удалённые
	ScopeAll
)

// IncludesDeleted сообщает, нужно ли возвращать удалённые записи
func (s Scope) IncludesDeleted() bool {
	return s == ScopeAll
}
