package documents

import "context"

type actorKey struct{}

// ContextWithActor tags ctx with the id of the user performing an operation
// so history rows can name them.
func ContextWithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
