package config

// DefaultParams returns a parameter set tuned for the plant.Multirotor
// defaults (1 kg quad, 1 ms step).
func DefaultParams() Params {
	return Params{
		"SIMULATION_DELTA_TIME": 0.001,
		"MASS":                  1.0,
		"GRAVITY":               9.81,

		"PID_ALT_CONTROL_CYCLE": 0.01,
		"PID_ALT_MAX_POWER":     5.0,
		"PID_ALT_MAX_SPD":       2.0,
		"PID_ALT_THROTTLE_GAIN": 1.0,
		"PID_ALT_Kp":            4.0,
		"PID_ALT_Ki":            0.0,
		"PID_ALT_Kd":            0.0,
		"PID_ALT_SPD_Kp":        20.0,
		"PID_ALT_SPD_Ki":        2.0,
		"PID_ALT_SPD_Kd":        0.0,

		"HEAD_CONTROL_CYCLE":     0.01,
		"PID_PARAM_MAX_YAW_RATE": 30.0,
		"PID_YAW_Kp":             1.0,
		"PID_YAW_Ki":             0.0,
		"PID_YAW_Kd":             0.0,

		"POS_CONTROL_CYCLE": 0.01,
		"PID_POS_MAX_SPD":   3.0,
		"PID_POS_MAX_ROLL":  15.0,
		"PID_POS_MAX_PITCH": 15.0,
		"PID_POS_X_Kp":      0.8,
		"PID_POS_X_Ki":      0.0,
		"PID_POS_X_Kd":      0.0,
		"PID_POS_Y_Kp":      0.8,
		"PID_POS_Y_Ki":      0.0,
		"PID_POS_Y_Kd":      0.0,
		"PID_POS_VX_Kp":     5.0,
		"PID_POS_VX_Ki":     0.1,
		"PID_POS_VX_Kd":     0.0,
		"PID_POS_VY_Kp":     5.0,
		"PID_POS_VY_Ki":     0.1,
		"PID_POS_VY_Kd":     0.0,

		"ANGLE_CONTROL_CYCLE":    0.001,
		"PID_PARAM_MAX_TORQUE_X": 0.5,
		"PID_PARAM_MAX_TORQUE_Y": 0.5,
		"PID_PARAM_MAX_TORQUE_Z": 0.2,
		"PID_ROLL_Kp":            0.01,
		"PID_ROLL_Ki":            0.0,
		"PID_ROLL_Kd":            0.00005,
		"PID_PITCH_Kp":           0.01,
		"PID_PITCH_Ki":           0.0,
		"PID_PITCH_Kd":           0.00005,
		"PID_YAW_RATE_Kp":        0.005,
		"PID_YAW_RATE_Ki":        0.0,
		"PID_YAW_RATE_Kd":        0.0,
	}
}
