package config

import (
	"os"
	"strconv"
)

const DATABASE_TYPE = "SFLOW_DATABASE_TYPE"
const DATABASE_URL = "SFLOW_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "SFLOW_DATABASE_SQLLITE_FILE_NAME"
const SERVER_WEB_PORT = "SFLOW_SERVER_WEB_PORT"
const SERVER_LISTEN_ADDR = "SFLOW_SERVER_LISTEN_ADDR" //full listen address; overrides SERVER_WEB_PORT when set
const STATUS_HISTORY_LIMIT = "SFLOW_STATUS_HISTORY_LIMIT" //number of history rows returned on the status endpoint
const SEARCH_DEFAULT_LIMIT = "SFLOW_SEARCH_DEFAULT_LIMIT" //page size used when a search request has no limit

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, _ := strconv.Atoi(val)
		return intValue
	}
	return 0
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	if settingKey == SERVER_WEB_PORT {
		return "8080"
	}
	if settingKey == STATUS_HISTORY_LIMIT {
		return "10"
	}
	if settingKey == SEARCH_DEFAULT_LIMIT {
		return "50"
	}
	if settingKey == DATABASE_SQLLITE_FILE_NAME {
		return "./stateflow.db"
	}
	return ""
}
