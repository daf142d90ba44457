// Package storage provides persistent storage for fridges and menu history.
// It uses BadgerDB as the embedded database and stores values as JSON.
package storage
