package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           FieldLogger Inspection API
// @version         0.1.0
// @description     Field inspection records with idempotent submit, offline sync and live snapshots.
// @host            localhost:3000
// @BasePath        /
// @schemes         http
