package query

const deviceFragment = `
fragment DeviceDetails on Device {
	id
	moduleId
	info
	operationParams {
		mode
		ledEnabled
		ledOffAt
	}
	ledColor {
		name
		hexCode
		ledColorCode
	}
	availableLedColors {
		name
		hexCode
		ledColorCode
	}
	lastConnectionState {
		__typename
		date
	}
	nextLocationUpdateExpectedBy
}
`

const householdsQuery = `
query CurrentUserHouseholds {
	currentUser {
		userHouseholds {
			household {
				pets {
					id
					name
					homeCityState
					yearOfBirth
					monthOfBirth
					dayOfBirth
					gender
					weight
					breed {
						name
					}
					photos {
						first {
							image {
								fullSize
							}
						}
					}
					device {
						...DeviceDetails
					}
				}
			}
		}
	}
}
` + deviceFragment

const locationQuery = `
query CurrentLocation($petId: String!) {
	pet(id: $petId) {
		ongoingActivity {
			__typename
			start
			... on OngoingRest {
				position {
					latitude
					longitude
				}
				place {
					name
					address
				}
			}
			... on OngoingWalk {
				positions {
					position {
						latitude
						longitude
					}
				}
			}
		}
	}
}
`

const statsQuery = `
query CurrentStats($petId: String!) {
	pet(id: $petId) {
		dailyStat: currentActivitySummary(period: DAILY) {
			stepGoal
			totalSteps
			totalDistance
		}
		weeklyStat: currentActivitySummary(period: WEEKLY) {
			stepGoal
			totalSteps
			totalDistance
		}
		monthlyStat: currentActivitySummary(period: MONTHLY) {
			stepGoal
			totalSteps
			totalDistance
		}
	}
}
`

const deviceQuery = `
query DeviceDetails($petId: String!) {
	pet(id: $petId) {
		device {
			...DeviceDetails
		}
	}
}
` + deviceFragment

const setLedColorMutation = `
mutation SetDeviceLed($moduleId: String!, $ledColorCode: Int!) {
	setDeviceLed(input: {moduleId: $moduleId, ledColorCode: $ledColorCode}) {
		...DeviceDetails
	}
}
` + deviceFragment

const setLedPowerMutation = `
mutation UpdateDeviceOperationParams($input: UpdateDeviceOperationParamsInput!) {
	updateDeviceOperationParams(input: $input) {
		...DeviceDetails
	}
}
` + deviceFragment

const (
	householdPetsPath = "data.currentUser.userHouseholds.#.household.pets|@flatten"
	locationPath      = "data.pet.ongoingActivity"
	petPath           = "data.pet"
	dataPath          = "data"
)
