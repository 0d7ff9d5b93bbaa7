package habit

// Mutation 是乐观更新的结果：OK 时 Value 为持久化后的值；
// 失败时 Err 说明原因，RollbackTo 是调用方应恢复到的变更前值。
type Mutation[T any] struct {
	OK         bool
	Value      T
	Err        error
	RollbackTo T
}

func succeeded[T any](v T) Mutation[T] {
	return Mutation[T]{OK: true, Value: v}
}

func failed[T any](err error, rollback T) Mutation[T] {
	return Mutation[T]{Err: err, RollbackTo: rollback}
}
