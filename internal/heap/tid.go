package heap

// TID (Tuple ID) is the row identity inside a heap file: the byte offset at
// which the row's line starts. Index leaves store it as their value.
type TID int64
