package catalog

import "fmt"

type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown canonical key %q", e.Key)
}

type SynonymConflictError struct {
	Token string
	Key   string
}

func (e *SynonymConflictError) Error() string {
	return fmt.Sprintf("synonym %q cannot map to %q: it is itself a canonical key", e.Token, e.Key)
}
