// Package retry provides automatic retry logic with exponential backoff
// for transient database connection failures.
//
// The package supports pluggable error classification and backoff strategies.
//
// # Example Usage
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connectToDatabase(ctx)
//	})
//
// # Error Classification
//
// The ErrorClassifier interface determines which errors are transient
// (retryable) versus fatal. The PostgreSQLErrorClassifier recognizes common
// transient PostgreSQL conditions: connection exceptions, resource
// exhaustion, serialization failures, network errors.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry
