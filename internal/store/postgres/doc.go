// Package postgres implements the person, one-time code and recovery token
// stores on PostgreSQL via pgx. Migrations embeds the schema for goose.
package postgres
