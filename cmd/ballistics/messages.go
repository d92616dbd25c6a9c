package main

import "fmt"

//user-facing messages

func msgFileNotFound(name string) string {
	return fmt.Sprintf("ERROR:\n No save named '%s' was found", name)
}

func msgFileReadError(err error) string {
	return fmt.Sprintf("ERROR:\n Could not read the save '%s'", err)
}

func msgFileSaveError(name string, err error) string {
	return fmt.Sprintf("ERROR:\n Could not save '%s': '%s'", name, err)
}

func msgWeatherError(err error) string {
	return fmt.Sprintf("ERROR:\n Could not get the current weather:\n%s", err)
}

func msgConfirmDelete(name string) string {
	return fmt.Sprintf("Are you sure you want to delete the configuration named '%s'? Repeat with --yes to confirm.", name)
}

func msgConfirmOversave(name string) string {
	return fmt.Sprintf("The configuration named '%s' already exists. Repeat with --force to overwrite it.", name)
}

const msgProcessingWeatherData = "Fetching the weather data ..."
const msgWeatherDataSuccess = "Weather data fetched"
const msgCalculating = "Calculating ..."

func msgSaved(name string) string {
	return fmt.Sprintf("Saved configuration '%s'", name)
}

func msgDeleted(name string) string {
	return fmt.Sprintf("Deleted configuration '%s'", name)
}
