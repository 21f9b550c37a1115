package menu

// FallbackWeek returns the compiled-in default weekly menu. It is the
// menu printed on the mess notice board; live records only ever
// overwrite individual slots of it.
func FallbackWeek() WeekMenu {
	return WeekMenu{
		"monday": {
			Breakfast: "Idli, Sambar, Coconut Chutney, Tea",
			Lunch:     "Rice, Dal Tadka, Aloo Gobi, Curd, Papad",
			Snacks:    "Samosa, Tea",
			Dinner:    "Chapati, Paneer Butter Masala, Jeera Rice",
		},
		"tuesday": {
			Breakfast: "Poha, Jalebi, Tea",
			Lunch:     "Rice, Rajma, Bhindi Fry, Buttermilk",
			Snacks:    "Vada Pav, Coffee",
			Dinner:    "Chapati, Chana Masala, Veg Pulao",
		},
		"wednesday": {
			Breakfast: "Upma, Coconut Chutney, Tea",
			Lunch:     "Rice, Sambar, Cabbage Poriyal, Curd",
			Snacks:    "Bread Pakora, Tea",
			Dinner:    "Chapati, Mix Veg Curry, Khichdi",
		},
		"thursday": {
			Breakfast: "Paratha, Curd, Pickle, Tea",
			Lunch:     "Rice, Kadhi Pakora, Aloo Jeera, Papad",
			Snacks:    "Biscuits, Tea",
			Dinner:    "Chapati, Dal Makhani, Plain Rice",
		},
		"friday": {
			Breakfast: "Dosa, Sambar, Tomato Chutney, Tea",
			Lunch:     "Rice, Dal Fry, Palak Paneer, Curd",
			Snacks:    "Pav Bhaji, Coffee",
			Dinner:    "Chapati, Veg Kofta, Fried Rice",
		},
		"saturday": {
			Breakfast: "Chole Bhature, Tea",
			Lunch:     "Rice, Sambar, Potato Fry, Buttermilk",
			Snacks:    "Maggi, Tea",
			Dinner:    "Chapati, Egg Curry / Paneer Curry, Plain Rice",
		},
		"sunday": {
			Breakfast: "Puri, Aloo Sabzi, Sweet, Tea",
			Lunch:     "Veg Biryani, Raita, Salad, Gulab Jamun",
			Snacks:    "Fruit Chaat, Tea",
			Dinner:    "Chapati, Dal Tadka, Curd Rice",
		},
	}
}

//   This project is the backend API for the HostelHub mess portal. Weekly mess menus, resident accounts and helper endpoints for our hostel apps.
//   API Copyright (C) 2025 HostelHub
//       This program is free software: you can redistribute it and/or modify
//       it under the terms of the GNU General Public License as published by
//       the Free Software Foundation, either version 3 of the License, or
//       (at your option) any later version.

//       This program is distributed in the hope that it will be useful,
//       but WITHOUT ANY WARRANTY; without even the implied warranty of
//       MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//       GNU General Public License for more details.

//       You should have received a copy of the GNU General Public License
//       along with this program.  If not, see <https://www.gnu.org/licenses/>.
